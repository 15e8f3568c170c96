// Package notify holds the emergency contact senders. Delivery is simulated:
// each sender logs the message and reports success.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/abhishekpnaik05/vigitrack/internal/genai"
)

// Channel names a delivery channel.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelEmail    Channel = "email"
)

// MessageArgs are the arguments of the SMS and WhatsApp senders.
type MessageArgs struct {
	To      string `json:"to" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// EmailArgs are the arguments of the email sender.
type EmailArgs struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// Result is returned to the caller (and to the model) after a send.
type Result struct {
	Success bool `json:"success"`
}

// Dispatcher sends emergency messages.
type Dispatcher struct {
	validate *validator.Validate
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{validate: validator.New(), logger: logger}
}

// SendSMS simulates an SMS.
func (d *Dispatcher) SendSMS(_ context.Context, args MessageArgs) (Result, error) {
	if err := d.validate.Struct(args); err != nil {
		return Result{}, fmt.Errorf("invalid sms arguments: %w", err)
	}
	d.logger.Info(fmt.Sprintf("SIMULATING SMS to %s: %s", args.To, args.Message),
		zap.String("channel", string(ChannelSMS)))
	return Result{Success: true}, nil
}

// SendWhatsApp simulates a WhatsApp message.
func (d *Dispatcher) SendWhatsApp(_ context.Context, args MessageArgs) (Result, error) {
	if err := d.validate.Struct(args); err != nil {
		return Result{}, fmt.Errorf("invalid whatsapp arguments: %w", err)
	}
	d.logger.Info(fmt.Sprintf("SIMULATING WhatsApp to %s: %s", args.To, args.Message),
		zap.String("channel", string(ChannelWhatsApp)))
	return Result{Success: true}, nil
}

// SendEmail simulates an email.
func (d *Dispatcher) SendEmail(_ context.Context, args EmailArgs) (Result, error) {
	if err := d.validate.Struct(args); err != nil {
		return Result{}, fmt.Errorf("invalid email arguments: %w", err)
	}
	d.logger.Info(fmt.Sprintf("SIMULATING Email to %s: Subject: %s, Body: %s", args.To, args.Subject, args.Body),
		zap.String("channel", string(ChannelEmail)))
	return Result{Success: true}, nil
}

// Tool names exposed to the generation service.
const (
	ToolSendSMS      = "sendSms"
	ToolSendWhatsApp = "sendWhatsApp"
	ToolSendEmail    = "sendEmail"
)

// ChannelOf maps a tool name to its channel.
func ChannelOf(tool string) (Channel, bool) {
	switch tool {
	case ToolSendSMS:
		return ChannelSMS, true
	case ToolSendWhatsApp:
		return ChannelWhatsApp, true
	case ToolSendEmail:
		return ChannelEmail, true
	}
	return "", false
}

// Tools exposes the senders as callable tools.
func (d *Dispatcher) Tools() []genai.Tool {
	messageParams := genai.Object(map[string]*genai.Schema{
		"to":      genai.String("The recipient's phone number."),
		"message": genai.String("The message to send."),
	}, "to", "message")

	return []genai.Tool{
		{
			Name:        ToolSendSMS,
			Description: "Sends an SMS message to a specified phone number.",
			Parameters:  messageParams,
			Handler:     bind(d.SendSMS),
		},
		{
			Name:        ToolSendWhatsApp,
			Description: "Sends a WhatsApp message to a specified phone number.",
			Parameters:  messageParams,
			Handler:     bind(d.SendWhatsApp),
		},
		{
			Name:        ToolSendEmail,
			Description: "Sends an email to a specified address.",
			Parameters: genai.Object(map[string]*genai.Schema{
				"to":      genai.String("The recipient's email address."),
				"subject": genai.String("The email subject."),
				"body":    genai.String("The email body."),
			}, "to", "subject", "body"),
			Handler: bind(d.SendEmail),
		},
	}
}

func bind[T any](send func(context.Context, T) (Result, error)) genai.ToolHandler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args T
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
		return send(ctx, args)
	}
}
