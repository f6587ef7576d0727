package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"ensembleplanner/internal/domain"
)

// Config holds configuration for the invitation notifier.
type Config struct {
	Provider        string // "ses" or "noop"
	FromAddress     string
	FromName        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewInvitationNotifier creates a notifier from config. Provider "ses" sends
// invitation emails through AWS SES; anything else is a no-op that only logs.
func NewInvitationNotifier(cfg Config, resolver domain.AddressResolver, logger *slog.Logger) domain.InvitationNotifier {
	switch cfg.Provider {
	case "ses":
		awsCfg := aws.Config{
			Region: cfg.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
		}
		return &sesNotifier{
			client:      ses.NewFromConfig(awsCfg),
			fromAddress: cfg.FromAddress,
			fromName:    cfg.FromName,
			resolver:    resolver,
			logger:      logger,
		}
	case "noop":
		return &noopNotifier{logger: logger}
	default:
		logger.Warn("unknown notifier provider, using noop", "provider", cfg.Provider)
		return &noopNotifier{logger: logger}
	}
}

type sesNotifier struct {
	client      *ses.Client
	fromAddress string
	fromName    string
	resolver    domain.AddressResolver
	logger      *slog.Logger
}

func (n *sesNotifier) NotifyInvited(ctx context.Context, notice domain.InvitationNotice) error {
	to, err := n.resolver.EmailFor(ctx, notice.PerformerID)
	if err != nil {
		return fmt.Errorf("resolve performer address: %w", err)
	}

	subject, htmlBody, textBody, err := renderInvitation(notice)
	if err != nil {
		return fmt.Errorf("render invitation email: %w", err)
	}

	source := n.fromAddress
	if n.fromName != "" {
		source = fmt.Sprintf("%s <%s>", n.fromName, n.fromAddress)
	}
	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(textBody),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}
	result, err := n.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("send email via SES: %w", err)
	}
	n.logger.Info("invitation email sent", "message_id", aws.ToString(result.MessageId), "event_id", notice.EventID)
	return nil
}

type noopNotifier struct {
	logger *slog.Logger
}

func (n *noopNotifier) NotifyInvited(ctx context.Context, notice domain.InvitationNotice) error {
	n.logger.Info("invitation notification (noop)",
		"event_id", notice.EventID, "performer_id", notice.PerformerID)
	return nil
}

// StaticDirectory resolves performer addresses from a fixed map. Development
// stand-in until the identity provider exposes a lookup endpoint.
type StaticDirectory map[string]string

func (d StaticDirectory) EmailFor(_ context.Context, performerID string) (string, error) {
	if email, ok := d[performerID]; ok {
		return email, nil
	}
	return "", fmt.Errorf("no address for performer %q: %w", performerID, domain.ErrNotFound)
}
