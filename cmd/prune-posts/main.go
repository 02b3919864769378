package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"

	"github.com/Lllllllleong/easyrent/internal/models"
	"github.com/Lllllllleong/easyrent/internal/services"
)

var (
	retentionInstance *services.RetentionFunction
	once              sync.Once
	initErr           error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	functions.CloudEvent("HandlePrunePosts", handlePrunePosts)
}

// main is required by the Go Functions Framework.
func main() {}

// handlePrunePosts is triggered by a scheduled Pub/Sub message. The message
// body may override the retention window and the cleanup statuses.
func handlePrunePosts(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		retentionInstance, initErr = services.NewRetention(context.Background())
	})
	if initErr != nil {
		slog.Error("Critical error during function initialization", "error", initErr)
		return initErr
	}

	req, err := decodePruneRequest(e)
	if err != nil {
		slog.Error("Failed to unmarshal event data", "error", err, "data", string(e.Data()))
		return err
	}

	res, err := retentionInstance.Process(ctx, req)
	if err != nil {
		return err
	}
	slog.Info("Prune event handled.", "eventId", e.ID(), "prunedPosts", res.Pruned.Posts, "prunedApartments", res.Pruned.Apartments, "cleanedUp", res.CleanedUp)
	return nil
}

func decodePruneRequest(e cloudevents.Event) (*models.PruneRequest, error) {
	req := &models.PruneRequest{}
	if len(e.Data()) == 0 {
		return req, nil
	}
	var msg models.PubSubMessage
	if err := json.Unmarshal(e.Data(), &msg); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if len(msg.Message.Data) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(msg.Message.Data, req); err != nil {
		return nil, fmt.Errorf("json.Unmarshal message data: %w", err)
	}
	return req, nil
}
