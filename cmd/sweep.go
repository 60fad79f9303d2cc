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

	"github.com/stashbin/stashbin/retention"
)

// NewSweepCommand returns a command that runs one retention sweep
func NewSweepCommand() *cobra.Command {

	var maxAge time.Duration
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete objects older than the retention window",
		Run: func(cmd *cobra.Command, args []string) {

			opts := getOptions()
			sweeper := &retention.Sweeper{
				Store:  getStore(opts),
				Policy: retention.Policy{MaxAge: maxAge},
				Prefix: opts.Prefix,
				DryRun: dryRun,
				Logger: getLogger(opts),
			}

			result, err := sweeper.Run(context.Background())
			if err != nil {
				fatal(err)
			}

			green := color.New(color.FgGreen).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			if dryRun {
				fmt.Printf("%d of %d objects would be deleted (dry run)\n",
					result.Eligible, result.Listed)
				return
			}
			fmt.Printf("Deleted %s of %d objects\n",
				green(result.Deleted), result.Listed)
			if result.Failed > 0 {
				fmt.Printf("%s objects could not be deleted\n", red(result.Failed))
			}
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", retention.DefaultMaxAge,
		"Age beyond which objects are deleted")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"Report what would be deleted without deleting")

	return cmd
}

func init() {
	rootCmd.AddCommand(NewSweepCommand())
}
