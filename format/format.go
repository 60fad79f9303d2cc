// Copyright 2023 Stashbin, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/fatih/structs"
)

// TableOpts are options used when rendering a table
type TableOpts struct {
	Rows       []interface{}
	Colors     []*color.Color
	Columns    []string
	Separator  string
	ShowHeader bool
}

// Table builds a text table from the given data items and chosen
// columns. It returns a list of rows that can be printed.
func Table(opts TableOpts) ([]string, error) {

	if len(opts.Rows) == 0 {
		return nil, errors.New("No rows to display")
	}
	if len(opts.Columns) == 0 {
		return nil, errors.New("No columns to display")
	}

	separator := " | "
	if opts.Separator != "" {
		separator = opts.Separator
	}

	cells := make([][]string, len(opts.Rows))
	for i, row := range opts.Rows {
		attrs := structs.Map(row)
		cells[i] = make([]string, len(opts.Columns))
		for j, column := range opts.Columns {
			value, ok := attrs[column]
			if !ok {
				return nil, fmt.Errorf("Item has no attribute: %s", column)
			}
			cells[i][j] = fmt.Sprintf("%v", value)
		}
	}

	widths := make([]int, len(opts.Columns))
	labels := make([]string, len(opts.Columns))
	for j, column := range opts.Columns {
		labels[j] = strings.ToUpper(column)
		if opts.ShowHeader {
			widths[j] = len(labels[j])
		}
	}
	for _, row := range cells {
		for j, value := range row {
			if len(value) > widths[j] {
				widths[j] = len(value)
			}
		}
	}

	formats := make([]string, len(widths))
	tableWidth := len(separator) * (len(opts.Columns) - 1)
	for j, width := range widths {
		formats[j] = fmt.Sprintf("%%-%ds", width)
		tableWidth += width
	}

	var rows []string
	if opts.ShowHeader {
		headers := make([]string, len(labels))
		for j, label := range labels {
			headers[j] = fmt.Sprintf(formats[j], label)
		}
		rows = append(rows,
			strings.Repeat("=", tableWidth),
			strings.Join(headers, separator),
			strings.Repeat("=", tableWidth))
	}

	var rowColors []*color.Color
	if len(opts.Colors) == len(opts.Rows) {
		rowColors = opts.Colors
	}

	for i, row := range cells {
		items := make([]string, len(row))
		for j, value := range row {
			if rowColors != nil {
				items[j] = rowColors[i].Sprintf(formats[j], value)
			} else {
				items[j] = fmt.Sprintf(formats[j], value)
			}
		}
		rows = append(rows, strings.Join(items, separator))
	}

	return rows, nil
}
