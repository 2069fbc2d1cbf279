package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/mapscript/mapscript/pkg/cache"
	"github.com/mapscript/mapscript/pkg/docstore"
	"github.com/mapscript/mapscript/pkg/editor"
	"github.com/mapscript/mapscript/pkg/render"
)

// cleanupInterval is how often idle editing sessions are swept.
const cleanupInterval = 10 * time.Minute

// serveCommand creates the serve command, which runs the editor HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		mongo   string
		docsDir string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the editor HTTP server",
		Long: `Serve the MapScript editor API.

The server keeps in-memory editing sessions with undo history, compiles on
every change, renders through the cache, and saves documents to the local
documents directory or to MongoDB when --mongo is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			docs, err := c.newDocStore(ctx, mongo, docsDir)
			if err != nil {
				return err
			}
			defer docs.Close(context.Background())

			sessionTTL := time.Duration(c.Config.Serve.SessionTTLHours) * time.Hour
			sessions := editor.NewStore(sessionTTL)
			sessions.StartCleanup(ctx, cleanupInterval)

			// Render artifacts and compile results share one backend.
			store := c.newCache(noCache)
			cacheTTL := time.Duration(c.Config.Cache.TTLHours) * time.Hour
			renderer := render.New(store, cache.NewDefaultKeyer(), cacheTTL)

			srv := editor.NewServer(sessions, renderer,
				editor.WithLogger(c.Logger),
				editor.WithDocStore(docs),
				editor.WithCompileCache(store, cacheTTL),
			)

			httpSrv := &http.Server{
				Addr:              addr,
				Handler:           srv,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- httpSrv.ListenAndServe()
			}()
			c.Logger.Info("editor server listening", "addr", addr)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Serve.Addr, "listen address")
	cmd.Flags().StringVar(&mongo, "mongo", c.Config.Serve.Mongo, "MongoDB URI for the document store")
	cmd.Flags().StringVar(&docsDir, "docs-dir", "", "directory for the file document store")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// newDocStore builds the document store the server saves to. A MongoDB URI
// wins over the local directory.
func (c *CLI) newDocStore(ctx context.Context, mongoURI, dir string) (docstore.Store, error) {
	if mongoURI != "" {
		return docstore.NewMongoStore(ctx, docstore.MongoConfig{URI: mongoURI})
	}
	if dir == "" {
		var err error
		dir, err = c.documentsDir()
		if err != nil {
			return nil, err
		}
	}
	return docstore.NewFileStore(dir)
}
