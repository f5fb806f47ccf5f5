package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"time"

	"github.com/EasterCompany/dex-voice-service/cache"
	"github.com/EasterCompany/dex-voice-service/config"
	"github.com/EasterCompany/dex-voice-service/session"
)

func main() {
	path := ""
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Fatal error loading config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := cache.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize local cache: %v", err)
	}
	store := session.NewRedisStore(client, 0)
	defer func() { _ = store.Close() }()

	if err := dumpSessions(ctx, os.Stdout, store); err != nil {
		log.Fatalf("Failed to dump sessions: %v", err)
	}
	if err := dumpLogs(ctx, os.Stdout, client); err != nil {
		log.Printf("Failed to read logs: %v", err)
	}
}

func dumpSessions(ctx context.Context, w io.Writer, store *session.RedisStore) error {
	ids, err := store.IDs(ctx)
	if err != nil {
		return err
	}
	sort.Strings(ids)

	fmt.Fprintf(w, "%d session(s)\n", len(ids))
	for _, id := range ids {
		sess, err := store.Get(ctx, id)
		if err != nil {
			log.Printf("Failed to read session %s: %v", id, err)
			continue
		}
		fmt.Fprintf(w, "\n--- Session: %s ---\n", sess.ID)
		fmt.Fprintf(w, "Created: %s\n", sess.CreatedAt.Format(time.RFC3339))
		if sess.LastReco != "" {
			fmt.Fprintf(w, "Last recommendation: %s\n", sess.LastReco)
		}
		for _, turn := range sess.History {
			fmt.Fprintf(w, "  - %s: %s\n", turn.Role, turn.Text)
		}
	}
	return nil
}

func dumpLogs(ctx context.Context, w io.Writer, client *cache.RedisClient) error {
	entries, err := client.GetListRange(ctx, cache.LogsKey, 0, -1)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n--- Key: %s ---\n", cache.LogsKey)
	for _, e := range entries {
		fmt.Fprintf(w, "  - %s\n", e)
	}
	return nil
}
