package utils

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rodaine/table"

	"usagereports/internal/models"
)

func PrintObjectTable(objects []models.RemoteObject) {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()

	tbl := table.New("Name", "Created", "Size")
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)
	tbl.WithWriter(os.Stdout)

	var total int64
	for _, obj := range objects {
		tbl.AddRow(obj.Name, FormatTime(obj.TimeCreated.UTC()), FormatBytes(obj.Size))
		total += obj.Size
	}

	tbl.Print()
	fmt.Printf("\nTotal: %d objects, %s\n", len(objects), FormatBytes(total))
}

func PrintDownloadTable(items []models.DownloadItem) {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()

	tbl := table.New("Remote", "Local", "Created", "Size")
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt)
	tbl.WithWriter(os.Stdout)

	var total int64
	for _, item := range items {
		tbl.AddRow(item.RemotePath, item.LocalPath, item.TimeCreated, FormatBytes(item.Size))
		total += item.Size
	}

	tbl.Print()
	fmt.Printf("\nTotal: %d files, %s\n", len(items), FormatBytes(total))
}
