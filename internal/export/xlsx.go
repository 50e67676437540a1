package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/courseforge/internal/course"
)

const (
	CoursesSheet = "Courses"
	ModulesSheet = "Modules"
)

var (
	courseHeader = []any{
		"id", "title", "author", "category", "level", "language", "price", "originalPrice",
		"discountPercentage", "isFree", "rating", "skills", "tags", "modules", "lessons",
		"certificateThreshold", "description", "image",
	}
	moduleHeader = []any{"course_id", "module_id", "title", "lessons", "lesson_titles"}
)

// encodeXLSX writes one row per course on the Courses sheet and one row
// per module on the Modules sheet.
func encodeXLSX(w io.Writer, courses []course.Course) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CoursesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(ModulesSheet); err != nil {
		return fmt.Errorf("create modules sheet: %w", err)
	}

	if err := setRow(f, CoursesSheet, 1, courseHeader); err != nil {
		return err
	}
	if err := setRow(f, ModulesSheet, 1, moduleHeader); err != nil {
		return err
	}

	moduleRow := 2
	for i, c := range courses {
		row := []any{
			c.ID, c.Title, c.Author, c.Category, c.Level, c.Language, c.Price, c.OriginalPrice,
			c.DiscountPercentage, c.IsFree, c.Rating, strings.Join(c.Skills, ", "), strings.Join(c.Tags, ", "),
			len(c.Modules), c.LessonCount(), c.Certificate.Threshold, c.Description, c.Image,
		}
		if err := setRow(f, CoursesSheet, i+2, row); err != nil {
			return err
		}

		for _, m := range c.Modules {
			titles := make([]string, len(m.Lessons))
			for j, l := range m.Lessons {
				titles[j] = l.Title
			}
			if err := setRow(f, ModulesSheet, moduleRow, []any{c.ID, m.ID, m.Title, len(m.Lessons), strings.Join(titles, "; ")}); err != nil {
				return err
			}
			moduleRow++
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}
