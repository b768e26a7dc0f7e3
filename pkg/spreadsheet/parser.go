package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"voterdata-service/internal/domain/entity"
	"voterdata-service/pkg/logger"
)

// Row is one decoded spreadsheet row: declared header name to raw cell
// value. Index is the 1-based data row number, header row excluded.
type Row struct {
	Index int
	Cells map[string]string
}

// Parser decodes an uploaded workbook into rows
type Parser struct {
	logger logger.Logger
}

// NewParser creates a new spreadsheet parser
func NewParser(logger logger.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse decodes the first sheet of a workbook. Header names are kept
// verbatim, since downstream field mapping dispatches on their exact
// spelling. Rows whose cells are all blank are dropped. The whole file is
// decoded before returning; row count is bounded by the upload ceiling.
func (p *Parser) Parse(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUnparseableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", entity.ErrUnparseableFile)
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUnparseableFile, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	headers := raw[0]
	rows := make([]Row, 0, len(raw)-1)
	index := 0
	for _, cells := range raw[1:] {
		index++
		row := Row{Index: index, Cells: make(map[string]string, len(headers))}
		empty := true
		for i, header := range headers {
			if header == "" {
				continue
			}
			var value string
			if i < len(cells) {
				value = cells[i]
			}
			if value != "" {
				empty = false
			}
			row.Cells[header] = value
		}
		if empty {
			continue
		}
		rows = append(rows, row)
	}

	p.logger.Debug("Decoded workbook", "sheet", sheets[0], "rows", len(rows))
	return rows, nil
}
