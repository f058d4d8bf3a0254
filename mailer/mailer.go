// Package mailer is the delivery seam for one-time payment codes. Actual
// email transport lives outside this service; the default implementation just
// logs the code so local setups can complete the flow.
package mailer

import (
	"context"

	"github.com/sirupsen/logrus"
)

type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

type LogMailer struct {
	Log *logrus.Logger
}

func (m *LogMailer) SendOTP(_ context.Context, to, code string) error {
	m.Log.WithFields(logrus.Fields{"to": to, "otp": code}).Info("payment OTP issued")
	return nil
}
