package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestCoerceCell(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantKind CellKind
		wantNum  float64
		wantText string
	}{
		{"blank", "", CellEmpty, 0, ""},
		{"whitespace only", "   ", CellEmpty, 0, ""},
		{"plain text", "Travel", CellString, 0, "Travel"},
		{"integer", "1250", CellNumber, 1250, ""},
		{"decimal", "1250.5", CellNumber, 1250.5, ""},
		{"thousands separators", "1,250,000.50", CellNumber, 1250000.50, ""},
		{"dollar sign", "$1,250.50", CellNumber, 1250.50, ""},
		{"cad dollar sign", "C$99.95", CellNumber, 99.95, ""},
		{"negative", "-20", CellNumber, -20, ""},
		{"accounting negative", "(147,085.71)", CellNumber, -147085.71, ""},
		{"dollar accounting negative", "($500.00)", CellNumber, -500, ""},
		{"percent stays text", "13%", CellString, 0, "13%"},
		{"tax label stays text", "HST (13%)", CellString, 0, "HST (13%)"},
		{"mixed stays text", "40' x 22'", CellString, 0, "40' x 22'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceCell(tt.raw)
			if got.Kind != tt.wantKind {
				t.Fatalf("CoerceCell(%q).Kind = %v, want %v", tt.raw, got.Kind, tt.wantKind)
			}
			if tt.wantKind == CellNumber && got.Number != tt.wantNum {
				t.Errorf("CoerceCell(%q).Number = %v, want %v", tt.raw, got.Number, tt.wantNum)
			}
			if tt.wantKind == CellString && got.Text != tt.wantText {
				t.Errorf("CoerceCell(%q).Text = %q, want %q", tt.raw, got.Text, tt.wantText)
			}
		})
	}
}

func TestNumericValue(t *testing.T) {
	if v, ok := NumericValue(NumberCell(12.34)); !ok || v != 12.34 {
		t.Errorf("NumericValue(number) = %v, %v", v, ok)
	}
	if _, ok := NumericValue(StringCell("not a number")); ok {
		t.Error("NumericValue(string) reported ok")
	}
	if _, ok := NumericValue(Cell{}); ok {
		t.Error("NumericValue(empty) reported ok")
	}
}

func TestWorkbookFromCSV(t *testing.T) {
	csvData := "Margin Analysis,,\nCMS Section,,\nDescription,Cost,Selling Price\nLiveSync Hardware,\"$6,400.00\",\"$8,000.00\"\n"

	wb, err := WorkbookFromCSV(strings.NewReader(csvData), "estimate")
	if err != nil {
		t.Fatalf("WorkbookFromCSV error: %v", err)
	}
	if len(wb.Sheets) != 1 || wb.Sheets[0].Name != "estimate" {
		t.Fatalf("unexpected sheets: %+v", wb.SheetNames())
	}
	rows := wb.Sheets[0].Rows
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}
	price := rows[3][2]
	if price.Kind != CellNumber || price.Number != 8000 {
		t.Errorf("price cell = %+v, want number 8000", price)
	}
}

func TestWorkbookFromExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetName(sheet, "Margin Analysis")
	f.SetCellValue("Margin Analysis", "A1", "CMS Section")
	f.SetCellValue("Margin Analysis", "A2", "LiveSync Hardware")
	f.SetCellValue("Margin Analysis", "B2", 8000.55)
	f.NewSheet("Responsibility Matrix")
	f.SetCellValue("Responsibility Matrix", "A1", "Administrative")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}
	f.Close()

	wb, err := WorkbookFromExcel(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("WorkbookFromExcel error: %v", err)
	}
	if len(wb.Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %v", wb.SheetNames())
	}
	pricing := wb.Sheet("Margin Analysis")
	if pricing == nil {
		t.Fatal("Margin Analysis sheet missing")
	}
	got := pricing.Rows[1][1]
	if got.Kind != CellNumber || got.Number != 8000.55 {
		t.Errorf("B2 = %+v, want number 8000.55", got)
	}
}

func TestLoadWorkbook_UnsupportedFormat(t *testing.T) {
	_, err := LoadWorkbook(strings.NewReader("data"), "estimate.pdf")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if !strings.Contains(err.Error(), "unsupported file format") {
		t.Errorf("error = %v, want unsupported file format", err)
	}
}

func TestLoadWorkbook_CSVSheetName(t *testing.T) {
	wb, err := LoadWorkbook(strings.NewReader("a,b\n"), "NBCU Estimate.csv")
	if err != nil {
		t.Fatalf("LoadWorkbook error: %v", err)
	}
	if wb.Sheets[0].Name != "NBCU Estimate" {
		t.Errorf("sheet name = %q, want base file name", wb.Sheets[0].Name)
	}
}
