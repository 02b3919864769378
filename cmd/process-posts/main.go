package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/Lllllllleong/easyrent/internal/models"
	"github.com/Lllllllleong/easyrent/internal/services"
)

var (
	processorInstance *services.PostProcessor
	once              sync.Once
	initErr           error
)

func init() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// "HandleProcessPosts" is the entry point name configured in GCP.
	functions.HTTP("HandleProcessPosts", handleProcessPosts)
}

// main is required by the Go Functions Framework.
func main() {}

// handleProcessPosts runs one pipeline pass. Cloud Scheduler calls it with
// an empty body; a JSON body may narrow the statuses or the batch size.
func handleProcessPosts(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		processorInstance, initErr = services.NewPostProcessor(context.Background())
	})
	if initErr != nil {
		slog.Error("CRITICAL: Post processor initialization failed.", "error", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.ProcessPostsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Could not decode request body.", "error", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	res, err := processorInstance.Process(r.Context(), &req)
	if err != nil {
		slog.Error("Post processing failed.", "error", err)
		http.Error(w, "Internal Server Error: processing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		slog.Error("Failed to write response.", "error", err)
	}
}
