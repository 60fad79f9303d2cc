package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/stashbin/stashbin/config"
	"github.com/stashbin/stashbin/handler"
	"github.com/stashbin/stashbin/retention"
	"github.com/stashbin/stashbin/store"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
}

func main() {

	logger.Info("coldstart")

	cfg, err := config.FromEnv()
	if err != nil {
		logger.WithError(err).Fatal("Invalid configuration")
	}

	sess := session.Must(session.NewSession(aws.NewConfig().WithRegion(cfg.Region)))
	svc := s3.New(sess)

	h := &handler.Sweep{
		Sweeper: &retention.Sweeper{
			Store:  store.NewS3(svc, cfg.Bucket),
			Policy: retention.Policy{MaxAge: cfg.MaxAge},
			Prefix: cfg.Prefix,
			Logger: logger,
		},
		Logger: logger,
	}

	lambda.Start(h.HandleRequest)
}
