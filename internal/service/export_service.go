package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"shiftgrid/backend/internal/model"
	"shiftgrid/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoCells      = errors.New("该区间暂无排班数据")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
//   - 周视图导出为 Excel (.xlsx)：行=员工，列=周一~周日
//   - 个人月度排班导出为 iCalendar (.ics)，可直接订阅进日历
type ExportService interface {
	// ExportWeekXLSX 导出某周（周一起）的排班表
	ExportWeekXLSX(ctx context.Context, weekStart string) (*bytes.Buffer, string, error)
	// ExportMonthICS 导出某员工某月（YYYY-MM）的排班日历
	ExportMonthICS(ctx context.Context, employeeID int64, month string) (string, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportWeekXLSX — 周排班表导出
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportWeekXLSX(ctx context.Context, weekStart string) (*bytes.Buffer, string, error) {
	start, err := time.ParseInLocation("2006-01-02", weekStart, time.Local)
	if err != nil {
		return nil, "", err
	}
	days := make([]string, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}

	cells, err := s.repo.Schedule.ListByDateRange(ctx, days[0], days[6])
	if err != nil {
		s.logger.Error("查询周排班失败", zap.Error(err))
		return nil, "", err
	}
	if len(cells) == 0 {
		return nil, "", ErrExportNoCells
	}

	employees, err := s.repo.Employee.List(ctx)
	if err != nil {
		return nil, "", err
	}

	// (员工, 日期) → 单元格文本
	cellText := make(map[string]string, len(cells))
	for _, c := range cells {
		if c.Shift == nil {
			continue
		}
		text := c.Shift.Name
		if c.Task != "" && c.Task != model.TaskNone {
			text += " / " + c.Task
		}
		cellText[fmt.Sprintf("%d:%s", c.EmployeeID, c.Date)] = text
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Schedule"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 14)
	lastCol := colName(2 + len(days))
	f.SetColWidth(sheetName, "C", lastCol, 16)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Schedule %s ~ %s", days[0], days[6]))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "Employee")
	f.SetCellValue(sheetName, cell("B", row), "Department")
	for i, d := range days {
		f.SetCellValue(sheetName, cell(colName(3+i), row), d)
	}

	// 数据行
	row = 3
	for _, e := range employees {
		f.SetCellValue(sheetName, cell("A", row), e.Name)
		f.SetCellValue(sheetName, cell("B", row), e.Department)
		for i, d := range days {
			text, ok := cellText[fmt.Sprintf("%d:%s", e.ID, d)]
			if !ok {
				text = "-"
			}
			f.SetCellValue(sheetName, cell(colName(3+i), row), text)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("schedule_%s.xlsx", weekStart)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportMonthICS — 个人月度排班日历
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportMonthICS(ctx context.Context, employeeID int64, month string) (string, string, error) {
	first, err := time.ParseInLocation("2006-01", month, time.Local)
	if err != nil {
		return "", "", err
	}
	last := first.AddDate(0, 1, -1)

	cells, err := s.repo.Schedule.ListByDateRange(ctx, first.Format("2006-01-02"), last.Format("2006-01-02"))
	if err != nil {
		s.logger.Error("查询月排班失败", zap.Error(err))
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//shiftgrid//schedule//EN")

	count := 0
	for _, c := range cells {
		if c.EmployeeID != employeeID || c.Shift == nil {
			continue
		}
		startAt, err := time.ParseInLocation("2006-01-02 15:04", c.Date+" "+c.Shift.StartTime, time.Local)
		if err != nil {
			continue
		}
		endAt, err := time.ParseInLocation("2006-01-02 15:04", c.Date+" "+c.Shift.EndTime, time.Local)
		if err != nil {
			continue
		}

		evt := cal.AddEvent(fmt.Sprintf("%d-%s@shiftgrid", c.ID, c.Date))
		evt.SetStartAt(startAt)
		evt.SetEndAt(endAt)
		summary := c.Shift.Name
		if c.Task != "" && c.Task != model.TaskNone {
			summary += " / " + c.Task
		}
		evt.SetSummary(summary)
		if c.Note != "" {
			evt.SetDescription(c.Note)
		}
		count++
	}
	if count == 0 {
		return "", "", ErrExportNoCells
	}

	filename := fmt.Sprintf("schedule_%d_%s.ics", employeeID, month)
	return cal.Serialize(), filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
