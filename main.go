package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Chative-core-poc-v1/wa-assistant/internal/agent/model"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/config"
	"github.com/Chative-core-poc-v1/wa-assistant/internal/server"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "wa-assistant",
		Short:         "WhatsApp assistant backed by an LLM with callable business actions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")

	load := func() (*config.AppConfig, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, err
		}
		logx.Init(logx.LoggerOpts{Environment: cfg.Env(), Level: cfg.LogLevel})
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load), newChatCmd(load), newSendTemplateCmd(load))
	return root
}

func newServeCmd(load func() (*config.AppConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the WhatsApp webhook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg)
			if err != nil {
				logx.Error().Err(err).Msg("Failed to build application")
				return err
			}
			defer a.Close()

			logStartup(cfg)

			return server.Serve(ctx, cfg.HTTPAddr, server.NewRouter(server.Config{
				VerifyToken: cfg.WhatsApp.VerifyToken,
				AppSecret:   cfg.WhatsApp.AppSecret,
				Apology:     cfg.Conversation.Apology,
				Runner:      a.runner,
				Sessions:    a.sessions,
				Messenger:   a.whatsapp,
				Metrics:     a.metrics,
			}))
		},
	}
}

func newChatCmd(load func() (*config.AppConfig, error)) *cobra.Command {
	var (
		waID string
		name string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the configured flow from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			handle, err := a.sessions.ResolveOrCreate(ctx, waID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Flow %s, session %s. Empty line or \"exit\" quits.\n", cfg.FlowID(), handle)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" || text == "exit" {
					return nil
				}
				reply := a.runner.Run(ctx, model.TurnInput{WaID: waID, Name: name, Text: text, Session: handle})
				fmt.Fprintln(out, reply)
			}
		},
	}
	cmd.Flags().StringVar(&waID, "wa-id", "local", "user id the session is stored under")
	cmd.Flags().StringVar(&name, "name", "Guest", "client name given to the model")
	return cmd
}

func newSendTemplateCmd(load func() (*config.AppConfig, error)) *cobra.Command {
	var (
		to       string
		template string
		language string
	)
	cmd := &cobra.Command{
		Use:   "send-template",
		Short: "Send a template message, hello_world to RECIPIENT_WAID by default",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if to == "" {
				to = cfg.WhatsApp.RecipientWaID
			}
			if to == "" {
				return fmt.Errorf("no recipient: set RECIPIENT_WAID or --to")
			}

			resp, err := newWhatsAppClient(cfg, nil).SendTemplate(cmd.Context(), to, template, language, nil)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.MessageID())
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient wa_id")
	cmd.Flags().StringVar(&template, "template", "hello_world", "approved template name")
	cmd.Flags().StringVar(&language, "language", "en_US", "template language code")
	return cmd
}

// logStartup logs the effective configuration with secrets masked.
func logStartup(cfg *config.AppConfig) {
	logx.Info().
		Str("env", cfg.Env().String()).
		Str("flow", string(cfg.FlowID())).
		Str("provider", string(cfg.LLM.Provider)).
		Str("model", cfg.LLM.ModelName()).
		Str("session_backend", string(cfg.SessionBackend)).
		Bool("signature_check", cfg.WhatsApp.AppSecret != "").
		Msg("Starting WhatsApp assistant")
	logx.Debug().Interface("config", cfg.Redacted()).Msg("Loaded configuration")
}
