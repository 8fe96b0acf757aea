package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	"liarsdice/config"
	"liarsdice/infrastructure"
)

// Watch prints the game events mirrored to NATS, for one table or all of them
func Watch(ctx context.Context, tableID string, out io.Writer) error {
	cfg := config.Get()
	SetupLogging(cfg)
	if cfg.NATSServers == "" {
		return fmt.Errorf("NATS_SERVERS is required to watch games")
	}

	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsClient.Close()

	subject := infrastructure.NewEventSubjectMapper().TableSubject(tableID)

	display := infrastructure.NewConsoleDisplay(out)
	err := natsClient.Subscribe(subject, "", func(data []byte) error {
		envelope, event, err := infrastructure.DecodeEnvelope(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "[%s %s] ", envelope.Timestamp.Format("15:04:05"), envelope.TableID)
		return display.Handle(ctx, event)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}

	log.Printf("Watching %s, press Ctrl+C to stop", subject)
	<-ctx.Done()
	return nil
}
