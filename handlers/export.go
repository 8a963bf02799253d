package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"
	"p9e.in/cqms/services"
)

const excelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler renders project data as downloadable Excel workbooks.
type ExportHandler struct {
	projects *services.ProjectService
	items    *services.ContractItemService
	tests    *services.QualityTestService
}

func NewExportHandler(projects *services.ProjectService, items *services.ContractItemService, tests *services.QualityTestService) *ExportHandler {
	return &ExportHandler{projects: projects, items: items, tests: tests}
}

// ContractItems handles GET /projects/{id}/contract-items/export
func (h *ExportHandler) ContractItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid project id")
		return
	}

	project, err := h.projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := h.items.ListByProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	headers := []string{"ID", "PCCES Code", "Name", "Unit", "Quantity", "Unit Price", "Total Price"}
	rows := make([][]interface{}, 0, len(items))
	for _, item := range items {
		rows = append(rows, []interface{}{
			item.ID, item.PccesCode, item.Name, item.Unit,
			item.Quantity, item.UnitPrice, item.TotalPrice,
		})
	}

	writeExcel(w, fmt.Sprintf("%s - Contract Items", project.Name), "contract_items", headers, rows)
}

// Tests handles GET /projects/{id}/tests/export
func (h *ExportHandler) Tests(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badRequest(w, "invalid project id")
		return
	}

	project, err := h.projects.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	tests, err := h.tests.ListByProject(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	headers := []string{"ID", "Contract Item ID", "Name", "Test Item", "Test Sets", "Test Result"}
	rows := make([][]interface{}, 0, len(tests))
	for _, test := range tests {
		rows = append(rows, []interface{}{
			test.ID, test.ContractItemID, test.Name, test.TestItem,
			test.TestSets, test.TestResult,
		})
	}

	writeExcel(w, fmt.Sprintf("%s - Quality Tests", project.Name), "tests", headers, rows)
}

// writeExcel builds a single-sheet workbook with a title row, a styled
// header row and one row per record, then streams it as an attachment.
func writeExcel(w http.ResponseWriter, title, baseName string, headers []string, rows [][]interface{}) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "left"},
	})
	f.SetCellValue(sheet, "A1", title)
	f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDDDDD"}, Pattern: 1},
	})
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 4)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx+5)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		writeError(w, services.Storagef("could not generate excel file: %v", err))
		return
	}

	filename := fmt.Sprintf("%s_%s.xlsx", baseName, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", excelContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}
