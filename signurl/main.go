package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/stashbin/stashbin/config"
	"github.com/stashbin/stashbin/handler"
	"github.com/stashbin/stashbin/identity"
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

	h := &handler.Upload{
		Store:  store.NewS3(svc, cfg.Bucket),
		Logger: logger,
	}

	if cfg.AuthEnabled() {
		verifier, err := identity.NewVerifier(context.Background(), identity.Config{
			Issuer:          cfg.TrustedIssuer,
			JWKSURL:         cfg.JWKSURL,
			ClientID:        cfg.ClientID,
			AllowedSubjects: cfg.AllowedSubjects,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to build token verifier")
		}
		h.Verifier = verifier
	}

	lambda.Start(h.HandleRequest)
}
