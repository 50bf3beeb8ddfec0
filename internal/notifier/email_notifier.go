package notifier

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	config "github.com/Baratelli/BaratelliMayorista/configs"
)

// SendEmail alerts the admin mailbox that a new wholesale order is waiting
// for confirmation.
func SendEmail(recipientEmail string, orderID uint, customerName string, totalAmount float64) error {
	cfg := config.LoadEmailConfig()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, "")),
	)
	if err != nil {
		log.Printf("Failed to load AWS SDK config for email to %s (order %d): %v", recipientEmail, orderID, err)
		return fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := ses.NewFromConfig(awsCfg)

	if cfg.SenderEmail == "" {
		return fmt.Errorf("sender email address is not configured in environment variables")
	}
	if recipientEmail == "" {
		return fmt.Errorf("recipient email address is empty")
	}

	subject := fmt.Sprintf("New order #%d pending confirmation", orderID)

	totalAmountStr := strconv.FormatFloat(totalAmount, 'f', 2, 64)

	bodyHTML := fmt.Sprintf(`
        <html>
        <body>
            <p>Order #%d was just placed by %s.</p>
            <p><strong>Total: $%s</strong></p>
            <p>It is waiting for confirmation in the admin panel; stock will
            only be deducted once you confirm it.</p>
        </body>
        </html>`, orderID, customerName, totalAmountStr)

	bodyText := fmt.Sprintf(
		"Order #%d was just placed by %s.\n\nTotal: $%s\n\n"+
			"It is waiting for confirmation in the admin panel; stock will only be deducted once you confirm it.",
		orderID, customerName, totalAmountStr)

	input := &ses.SendEmailInput{
		Source: aws.String(cfg.SenderEmail),
		Destination: &types.Destination{
			ToAddresses: []string{recipientEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Charset: aws.String("UTF-8"),
				Data:    aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyHTML),
				},
				Text: &types.Content{
					Charset: aws.String("UTF-8"),
					Data:    aws.String(bodyText),
				},
			},
		},
	}

	_, err = client.SendEmail(context.TODO(), input)
	if err != nil {
		log.Printf("Failed to send email for order %d to %s: %v", orderID, recipientEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("New-order email sent for order %d to %s", orderID, recipientEmail)
	return nil
}

// NotifyNewOrder fans a new-order alert out to every configured admin
// channel. Intended to run in its own goroutine; failures are logged only.
func NotifyNewOrder(orderID uint, customerName string, totalAmount float64) {
	cfg := config.LoadNotifyConfig()

	if cfg.AdminPhone != "" {
		if err := SendSMS(cfg.AdminPhone, orderID, customerName, totalAmount); err != nil {
			log.Printf("Failed to send SMS for order %d to %s: %v", orderID, cfg.AdminPhone, err)
		}
	}

	if cfg.AdminEmail != "" {
		if err := SendEmail(cfg.AdminEmail, orderID, customerName, totalAmount); err != nil {
			log.Printf("Failed to send email for order %d to %s: %v", orderID, cfg.AdminEmail, err)
		}
	}
}
