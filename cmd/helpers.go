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
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/stashbin/stashbin/store"
)

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	os.Exit(1)
}

type options struct {
	Bucket string
	Region string
	Prefix string
	Debug  bool
}

func getOptions() options {
	return options{
		Bucket: viper.GetString("bucket"),
		Region: viper.GetString("region"),
		Prefix: viper.GetString("prefix"),
		Debug:  viper.GetBool("debug"),
	}
}

func getSession(region string) (*session.Session, error) {
	cfg := aws.NewConfig().WithRegion(region).WithMaxRetries(8)
	return session.NewSession(cfg)
}

func getStore(opts options) store.Store {
	if opts.Bucket == "" {
		fatal(errors.New("Bucket is not set; use --bucket or STASHBIN_BUCKET"))
	}
	sess, err := getSession(opts.Region)
	if err != nil {
		fatal(err)
	}
	return store.NewS3(s3.New(sess), opts.Bucket)
}

func getLogger(opts options) *logrus.Logger {
	logger := logrus.New()
	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
