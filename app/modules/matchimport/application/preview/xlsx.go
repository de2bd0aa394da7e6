package preview

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	matchimportdomain "github.com/fanclub-cms/matchdesk/app/modules/matchimport/domain"
)

const sheetName = "Preview"

var xlsxHeader = []string{
	"Player", "Player ID", "Goals", "Assists", "Yellow", "Red", "Minutes",
	"Shots", "Passes", "Tackles", "Interceptions", "Saves", "Clean sheet",
}

// WriteXLSX renders the preview rows as a single-sheet workbook.
func WriteXLSX(w io.Writer, match *matchimportdomain.MatchRecord, rows []matchimportdomain.PreviewRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	offset := 1
	if match != nil {
		title := fmt.Sprintf("%s vs %s (%s)", match.HomeTeam, match.AwayTeam, match.MatchDate.Format("2006-01-02"))
		if err := f.SetCellValue(sheetName, "A1", title); err != nil {
			return fmt.Errorf("failed to write title: %w", err)
		}
		offset = 3
	}

	if err := setRow(f, offset, toCells(xlsxHeader)); err != nil {
		return err
	}

	for i, r := range rows {
		minutes := any("")
		if r.Minutes != nil {
			minutes = *r.Minutes
		}
		cleanSheet := "no"
		if r.CleanSheet {
			cleanSheet = "yes"
		}
		cells := []any{
			r.Name, r.PlayerID, r.Goals, r.Assists, r.YellowCards, r.RedCards, minutes,
			r.Shots, r.PassesCompleted, r.Tackles, r.Interceptions, r.Saves, cleanSheet,
		}
		if err := setRow(f, offset+1+i, cells); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func toCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
