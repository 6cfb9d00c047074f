// Package csvdetect inspects raw CSV bank exports and guesses which columns
// carry which semantic role (date, description, amount, type, running
// balance). Detection is advisory: the import pipeline always receives an
// explicit, user-confirmed mapping and never acts on a guess directly.
package csvdetect

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/hearthfin/hearth/internal/common"
)

// sampleLimit caps how many data rows are parsed for preview and detection.
const sampleLimit = 10

// Role keyword lists. Header names are matched case-insensitively by
// substring; the first matching header wins.
var (
	dateKeywords        = []string{"date", "time", "posted", "transaction date", "datetime"}
	descriptionKeywords = []string{"description", "memo", "details", "merchant", "payee", "name"}
	amountKeywords      = []string{"amount", "value", "total", "sum", "debit", "credit"}
	typeKeywords        = []string{"type", "transaction type", "debit/credit"}
	balanceKeywords     = []string{"balance", "running balance", "account balance", "current balance"}
)

// ColumnMapping assigns semantic roles to CSV columns by header name.
// TypeColumn and BalanceColumn are optional and may be empty.
type ColumnMapping struct {
	DateColumn        string
	DescriptionColumn string
	AmountColumn      string
	TypeColumn        string
	BalanceColumn     string
	DateFormat        string
}

// Detection is the result of inspecting a CSV sample.
type Detection struct {
	Suggested ColumnMapping
	Headers   []string
	Samples   []map[string]string
	Delimiter rune
}

// Detect parses a sample of the CSV text and returns the detected delimiter,
// headers, sample rows and a best-guess column-role mapping.
func Detect(csvText string) (*Detection, error) {
	delimiter := DetectDelimiter(csvText)

	headers, samples, err := readSample(csvText, delimiter, sampleLimit)
	if err != nil {
		return nil, err
	}

	return &Detection{
		Delimiter: delimiter,
		Headers:   headers,
		Samples:   samples,
		Suggested: ColumnMapping{
			DateColumn:        detectByKeywords(headers, dateKeywords, fallbackAt(headers, 0)),
			DescriptionColumn: detectByKeywords(headers, descriptionKeywords, fallbackAt(headers, 1)),
			AmountColumn:      detectAmountColumn(headers, samples),
			TypeColumn:        detectByKeywords(headers, typeKeywords, ""),
			BalanceColumn:     detectByKeywords(headers, balanceKeywords, ""),
		},
	}, nil
}

// DetectDelimiter counts ";" against "," on the first line and prefers the
// semicolon when it is more frequent. European exports commonly use ";"
// because "," is their decimal separator.
func DetectDelimiter(csvText string) rune {
	firstLine, _, _ := strings.Cut(csvText, "\n")
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

// readSample parses the header row plus up to limit data rows.
func readSample(csvText string, delimiter rune, limit int) ([]string, []map[string]string, error) {
	r := csv.NewReader(strings.NewReader(csvText))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headers, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedCSV, err)
	}

	var samples []map[string]string
	for len(samples) < limit {
		record, readErr := r.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedCSV, readErr)
		}
		if isEmptyRecord(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			}
		}
		samples = append(samples, row)
	}

	return headers, samples, nil
}

func isEmptyRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// detectByKeywords returns the first header containing any keyword, else the
// fallback.
func detectByKeywords(headers, keywords []string, fallback string) string {
	for _, header := range headers {
		lower := strings.ToLower(header)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				return header
			}
		}
	}
	return fallback
}

// detectAmountColumn requires the first sample value under a keyword-matched
// header to contain a digit, so that a header like "credit card name" is not
// mistaken for a numeric column.
func detectAmountColumn(headers []string, samples []map[string]string) string {
	for _, header := range headers {
		lower := strings.ToLower(header)
		for _, keyword := range amountKeywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			if len(samples) > 0 && strings.ContainsAny(samples[0][header], "0123456789") {
				return header
			}
		}
	}
	return ""
}

func fallbackAt(headers []string, i int) string {
	if i < len(headers) {
		return headers[i]
	}
	return ""
}
