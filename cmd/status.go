package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/liftsim/core/model"
	coremqtt "github.com/kilianp07/liftsim/core/mqtt"
	"github.com/kilianp07/liftsim/infra/mqtt"
)

var statusTimeout time.Duration

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the fleet status published over MQTT",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 3*time.Second, "time to wait for a status message")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if !cfg.MQTT.Enabled() {
		return fmt.Errorf("mqtt broker is not configured")
	}
	mqttCfg := cfg.MQTT
	mqttCfg.ClientID = fmt.Sprintf("%s-status-%d", mqttCfg.ClientID, time.Now().UnixNano())
	client, err := mqtt.NewPahoClient(mqttCfg)
	if err != nil {
		return fmt.Errorf("mqtt client: %w", err)
	}
	defer client.Disconnect()

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()
	st, err := fetchStatus(ctx, client, mqtt.NewTopics(mqttCfg.TopicPrefix).Status)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "tick %d, %d floors, policy %s, %d pending\n", st.Tick, st.TotalFloors, st.Policy, st.Pending)
	writeCars(out, st.Cars)
	return nil
}

// fetchStatus waits for the first decodable status message on topic.
func fetchStatus(ctx context.Context, c coremqtt.Client, topic string) (model.FleetStatus, error) {
	ch := make(chan model.FleetStatus, 1)
	err := c.Subscribe(topic, func(_ string, payload []byte) {
		var st model.FleetStatus
		if json.Unmarshal(payload, &st) != nil {
			return
		}
		select {
		case ch <- st:
		default:
		}
	})
	if err != nil {
		return model.FleetStatus{}, fmt.Errorf("subscribe %s: %w", topic, err)
	}
	select {
	case st := <-ch:
		return st, nil
	case <-ctx.Done():
		return model.FleetStatus{}, fmt.Errorf("no status on %s: %w", topic, ctx.Err())
	}
}
