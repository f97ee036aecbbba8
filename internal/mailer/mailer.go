// Package mailer delivers account emails. Real SMTP delivery is not wired up;
// the console mailer logs the message instead, which is the development
// behavior the rest of the system expects.
package mailer

import (
	"context"
	"fmt"

	"github.com/aleroux/chesslab/internal/logger"
)

// Mailer sends account-lifecycle emails.
type Mailer interface {
	SendWelcome(ctx context.Context, email, username string) error
}

// ConsoleMailer writes emails to the log.
type ConsoleMailer struct {
	from string
	log  *logger.Logger
}

func NewConsoleMailer(from string) *ConsoleMailer {
	return &ConsoleMailer{
		from: from,
		log:  logger.Default().WithPrefix("mailer"),
	}
}

func (m *ConsoleMailer) SendWelcome(ctx context.Context, email, username string) error {
	log := logger.FromContext(ctx).WithPrefix("mailer").WithField("to", email)
	log.Info("sending welcome email from %s", m.from)
	log.Info("subject: Welcome to the chess learning platform")
	log.Info("body: Dear %s, your account has been created. Link your Chess.com and Lichess accounts to analyze your games.", username)
	return nil
}

// WelcomeEmailJob sends the post-registration email on a worker pool.
type WelcomeEmailJob struct {
	Mailer   Mailer
	Email    string
	Username string
}

func (j *WelcomeEmailJob) Name() string {
	return fmt.Sprintf("welcome-email:%s", j.Username)
}

func (j *WelcomeEmailJob) Run(ctx context.Context) error {
	return j.Mailer.SendWelcome(ctx, j.Email, j.Username)
}
