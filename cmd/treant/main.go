package main

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"

	"github.com/coopco/treant/internal/ai"
	"github.com/coopco/treant/internal/blizzard"
	"github.com/coopco/treant/internal/commands"
	"github.com/coopco/treant/internal/config"
	"github.com/coopco/treant/internal/discord"
	"github.com/coopco/treant/internal/gateway"
	"github.com/coopco/treant/internal/pricing"
	"github.com/coopco/treant/internal/queue"
	"github.com/coopco/treant/internal/sampler"
	"github.com/coopco/treant/internal/secrets"
	"github.com/coopco/treant/internal/voice"
	"github.com/coopco/treant/internal/worker"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "treant",
	Short: "Treant Discord bot",
	Long:  "Treant answers slash commands over the interactions webhook,\nworks deferred commands off a queue, and speaks in voice channels.",
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ~/.treant/config.json)")
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(workerCmd())
	rootCmd.AddCommand(voiceCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func loadAWS(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}
	return awsCfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the interactions webhook gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			awsCfg, err := loadAWS(ctx, cfg)
			if err != nil {
				return err
			}

			store := secrets.NewStoreFromConfig(awsCfg)
			keyCache := secrets.NewCache(0, func(ctx context.Context) (string, error) {
				return store.Get(ctx, cfg.Discord.PublicKeySecretName)
			})
			publicKey := func(ctx context.Context) (ed25519.PublicKey, error) {
				hexKey, err := keyCache.Get(ctx)
				if err != nil {
					return nil, err
				}
				return discord.ParsePublicKey(hexKey)
			}

			router := commands.NewRouter(cfg.Discord.Command,
				queue.NewFromConfig(awsCfg, cfg.AWS.CommandQueueURL),
				queue.NewFromConfig(awsCfg, cfg.AWS.VoiceQueueURL))

			srv := gateway.NewServer(cfg.Gateway, gateway.NewHandler(publicKey, router))
			return srv.Start(ctx)
		},
	}
}

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the deferred command worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			awsCfg, err := loadAWS(ctx, cfg)
			if err != nil {
				return err
			}

			store := secrets.NewStoreFromConfig(awsCfg)
			editor := discord.NewClient()

			prices := pricing.NewOfferClient(cfg.Pricing.OfferURL)
			priceStore := pricing.NewDynamoStoreFromConfig(awsCfg, cfg.AWS.PriceTableName)
			recorder := pricing.NewRecorder(priceStore,
				time.Duration(cfg.Pricing.CooldownMinutes)*time.Minute)

			credsCache := secrets.NewCache(0, func(ctx context.Context) (string, error) {
				return store.Get(ctx, cfg.Blizzard.SecretName)
			})
			blizz := blizzard.NewClient(blizzard.Config{
				Credentials: func(ctx context.Context) (blizzard.Credentials, error) {
					raw, err := credsCache.Get(ctx)
					if err != nil {
						return blizzard.Credentials{}, err
					}
					return blizzard.ParseCredentials(raw)
				},
				OAuthURL:   cfg.Blizzard.OAuthURL,
				APIBaseURL: cfg.Blizzard.APIBaseURL,
				Namespace:  cfg.Blizzard.Namespace,
			})

			analyst, err := ai.New(cfg.Analyst)
			if err != nil {
				return err
			}

			gold := worker.NewGoldProcessor(worker.GoldConfig{
				Prices:       prices,
				Recorder:     recorder,
				Store:        priceStore,
				VoiceQueue:   queue.NewFromConfig(awsCfg, cfg.AWS.VoiceQueueURL),
				Editor:       editor,
				HistoryLimit: cfg.Pricing.HistoryLimit,
			})
			judge := worker.NewJudgeProcessor(worker.JudgeConfig{
				Equipment:      blizz,
				Analyst:        analyst,
				Editor:         editor,
				DefaultRealm:   cfg.Blizzard.DefaultRealm,
				AnalystTimeout: time.Duration(cfg.Analyst.TimeoutSeconds) * time.Second,
			})

			if cfg.Pricing.SampleSchedule != "" {
				s := sampler.NewService(prices, recorder)
				if err := s.Start(cfg.Pricing.SampleSchedule); err != nil {
					return fmt.Errorf("failed to start price sampler: %w", err)
				}
				defer s.Stop()
			}

			w := worker.New(queue.NewFromConfig(awsCfg, cfg.AWS.CommandQueueURL),
				map[string]worker.Processor{
					queue.CommandGold:  gold,
					queue.CommandJudge: judge,
				})
			w.Run(ctx)
			return nil
		},
	}
}

func voiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voice",
		Short: "Run the voice playback worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			awsCfg, err := loadAWS(ctx, cfg)
			if err != nil {
				return err
			}

			store := secrets.NewStoreFromConfig(awsCfg)
			token, err := store.GetToken(ctx, cfg.Discord.BotTokenSecretName)
			if err != nil {
				return fmt.Errorf("failed to load bot token: %w", err)
			}

			session, err := discordgo.New("Bot " + token)
			if err != nil {
				return fmt.Errorf("failed to create discord session: %w", err)
			}
			session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
			if err := session.Open(); err != nil {
				return fmt.Errorf("failed to open discord gateway: %w", err)
			}
			defer session.Close()
			slog.Info("voice: discord gateway connected")

			d := voice.NewDiscord(session)
			tts := voice.NewTTS(polly.NewFromConfig(awsCfg), cfg.Voice.VoiceID)
			player := voice.NewPlayer(d, tts, voice.DCAEncoder{})

			w := voice.NewWorker(queue.NewFromConfig(awsCfg, cfg.AWS.VoiceQueueURL), d, player)
			w.Run(ctx)
			return nil
		},
	}
}
