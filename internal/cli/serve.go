package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/smartcube"
	"github.com/SeamusWaldron/smartcube/internal/gocube"
	"github.com/SeamusWaldron/smartcube/internal/publish"
	"github.com/SeamusWaldron/smartcube/internal/stream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Forward cube state and orientation to renderers",
	Long: `Connect to a GoCube and publish every decoded state and calibrated
orientation to an MQTT broker, a websocket endpoint, or both, until
interrupted.

MQTT topics (prefix from config, default "smartcube"):
  <prefix>/state        facelets and piece state (JSON)
  <prefix>/orientation  calibrated quaternion (JSON)
  <prefix>/command      accepts reset-orientation, reset-state, arm-timer`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	mqttBroker   string
	streamListen string
)

func init() {
	serveCmd.Flags().StringVar(&deviceAddress, "device", "", "Device address (default: last used, else first found)")
	serveCmd.Flags().StringVar(&mqttBroker, "mqtt", "", "MQTT broker URL, e.g. tcp://localhost:1883 (default: config mqtt.broker)")
	serveCmd.Flags().StringVar(&streamListen, "listen", "", "Websocket listen address, e.g. :8080 (default: config stream.listen)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if mqttBroker != "" {
		cfg.MQTT.Broker = mqttBroker
	}
	if streamListen != "" {
		cfg.Stream.Listen = streamListen
	}
	if cfg.MQTT.Broker == "" && cfg.Stream.Listen == "" {
		return errors.New("nothing to serve: set --mqtt or --listen")
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := sessionOptions(cfg, log)
	var publisher *publish.Publisher
	if cfg.MQTT.Broker != "" {
		client := publish.NewClient(cfg.MQTT, log)
		if err := publish.Connect(ctx, client); err != nil {
			return err
		}
		defer client.Disconnect(250)
		publisher = publish.NewPublisher(client, cfg.MQTT, log)
		opts = append(opts, smartcube.WithStateSink(publisher), smartcube.WithOrientationSink(publisher))
	}

	var tasks []func() error
	if cfg.Stream.Listen != "" {
		hub := stream.NewHub(log)
		opts = append(opts, smartcube.WithStateSink(hub), smartcube.WithOrientationSink(hub))
		tasks = append(tasks, func() error { return stream.Serve(ctx, cfg.Stream.Listen, hub) })
	}

	client, err := connectCube(ctx, cfg, deviceAddress, log)
	if err != nil {
		return err
	}
	source := gocube.NewSource(client, gocube.WithLogger(log))
	defer source.Close()

	session := smartcube.NewSession(opts...)
	log.Info("session started", "session", session.ID())

	if publisher != nil {
		err := publisher.SubscribeCommands(ctx, func(c string) {
			handleCommand(c, session, source, log)
		})
		if err != nil {
			return err
		}
	}

	if err := source.Start(); err != nil {
		return err
	}

	tasks = append(tasks, func() error { return pump(ctx, source, session, log) })
	err = firstResult(ctx, startTasks(tasks...))
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// startTasks runs each task in its own goroutine. The returned channel has
// room for every result, so no task blocks once nobody is listening.
func startTasks(tasks ...func() error) <-chan error {
	results := make(chan error, len(tasks))
	for _, task := range tasks {
		go func() { results <- task() }()
	}
	return results
}

// firstResult returns the first task result, or nil once ctx is done.
func firstResult(ctx context.Context, results <-chan error) error {
	select {
	case err := <-results:
		return err
	case <-ctx.Done():
		return nil
	}
}

// handleCommand applies a remote command received over MQTT.
func handleCommand(cmd string, session *smartcube.Session, source cubeControl, log *slog.Logger) {
	switch cmd {
	case publish.CommandResetOrientation:
		session.ResetOrientation()
	case publish.CommandResetState:
		if err := source.ResetState(); err != nil {
			log.Warn("reset state", "err", err)
		}
		session.ResetState()
	case publish.CommandArmTimer:
		if !session.ArmTimer() {
			log.Info("timer not armed: solve in progress")
		}
	default:
		log.Warn("unknown command", "command", cmd)
	}
}
