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

	"github.com/spf13/cobra"

	"github.com/stashbin/stashbin/sign"
	"github.com/stashbin/stashbin/store"
)

// NewSignCommand returns a command that mints a signed upload URL
func NewSignCommand() *cobra.Command {

	var expires string
	var fileType string

	cmd := &cobra.Command{
		Use:   "sign [key]",
		Short: "Generate a signed upload URL for one object key",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {

			key := args[0]
			if err := sign.ValidateKey(key); err != nil {
				fatal(err)
			}
			expiry, err := sign.ParseExpiry(expires)
			if err != nil {
				fatal(err)
			}
			ttl := expiry.TTL
			if expiry.Unlimited {
				ttl = store.MaxPresignAge
			}

			s := getStore(getOptions())
			url, err := s.SignPut(context.Background(), key, fileType, ttl)
			if err != nil {
				fatal(err)
			}
			fmt.Println(url)
		},
	}

	cmd.Flags().StringVar(&expires, "expires", "3600",
		"Seconds until the URL expires, or \"unlimited\"")
	cmd.Flags().StringVar(&fileType, "file-type", "application/octet-stream",
		"Content type the upload is constrained to")

	return cmd
}

func init() {
	rootCmd.AddCommand(NewSignCommand())
}
