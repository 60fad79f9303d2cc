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
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/stashbin/stashbin/format"
	"github.com/stashbin/stashbin/retention"
)

type lsViewItem struct {
	Key          string
	Size         int64
	Age          string
	LastModified string
}

// NewLsCommand returns a command that lists objects in the bucket
func NewLsCommand() *cobra.Command {

	var maxAge time.Duration

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List objects with their age; objects past retention show in red",
		Run: func(cmd *cobra.Command, args []string) {

			opts := getOptions()
			s := getStore(opts)

			objects, err := s.List(context.Background(), opts.Prefix)
			if err != nil {
				fatal(err)
			}
			if len(objects) == 0 {
				fmt.Println("No objects found")
				return
			}

			policy := retention.Policy{MaxAge: maxAge}
			now := time.Now()

			var rows []interface{}
			var rowColors []*color.Color
			for _, obj := range objects {
				rows = append(rows, lsViewItem{
					Key:          obj.Key,
					Size:         obj.Size,
					Age:          format.Age(now.Sub(obj.LastModified)),
					LastModified: format.Timestamp(obj.LastModified),
				})
				if policy.Eligible(obj, now) {
					rowColors = append(rowColors, color.New(color.FgRed))
				} else {
					rowColors = append(rowColors, color.New(color.FgWhite))
				}
			}

			table, err := format.Table(format.TableOpts{
				Rows:       rows,
				Colors:     rowColors,
				Columns:    []string{"Key", "Size", "Age", "LastModified"},
				ShowHeader: true,
			})
			if err != nil {
				fatal(err)
			}
			for _, tableRow := range table {
				fmt.Println(tableRow)
			}
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", retention.DefaultMaxAge,
		"Retention window used to highlight old objects")

	return cmd
}

func init() {
	rootCmd.AddCommand(NewLsCommand())
}
