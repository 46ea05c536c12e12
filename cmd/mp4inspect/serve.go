package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/ugparu/mp4atom/server"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve atoms, tracks and samples over HTTP",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			gin.SetMode(gin.ReleaseMode)
			srv := server.New(a.cfg)
			go srv.Start()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-sig:
			case <-srv.Dead():
			}
			srv.Close()
			<-srv.Dead()
		},
	}
	cmd.Flags().String("listen", "0.0.0.0:8080", "address to listen on")
	cmd.Flags().Bool("pprof", false, "register pprof handlers")
	cmd.Flags().Int("max-sessions", 64, "most files open at once")
	return cmd
}
