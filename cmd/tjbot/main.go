// tjbot is a conversational companion robot: it listens continuously,
// wakes on an attention word, photographs its surroundings once to identify
// a character persona, and holds short spoken dialogs colored by the
// speaker's emotional tone.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-tjbot/internal/config"
	"github.com/teslashibe/go-tjbot/internal/log"
	"github.com/teslashibe/go-tjbot/pkg/audioio"
	"github.com/teslashibe/go-tjbot/pkg/camera"
	"github.com/teslashibe/go-tjbot/pkg/dialog"
	"github.com/teslashibe/go-tjbot/pkg/playback"
	"github.com/teslashibe/go-tjbot/pkg/session"
	"github.com/teslashibe/go-tjbot/pkg/stt"
	"github.com/teslashibe/go-tjbot/pkg/tone"
	"github.com/teslashibe/go-tjbot/pkg/tts"
	"github.com/teslashibe/go-tjbot/pkg/vision"
	"github.com/teslashibe/go-tjbot/pkg/watson"
)

const greeting = "Hi there, I am awake."

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		log.Error("tjbot stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Watson providers.
	tones, err := tone.NewWatson(
		watson.Credentials{Username: cfg.ToneUsername, Password: cfg.TonePassword},
		tone.WithLogger(log.L()),
	)
	if err != nil {
		return err
	}
	classifier, err := vision.NewWatson(cfg.VRAPIKey, cfg.ClassifierID, vision.WithLogger(log.L()))
	if err != nil {
		return err
	}
	engine, err := dialog.NewWatson(
		watson.Credentials{Username: cfg.ConversationUsername, Password: cfg.ConversationPassword},
		cfg.WorkspaceID,
		dialog.WithLogger(log.L()),
	)
	if err != nil {
		return err
	}
	synth, err := tts.NewWatson(
		watson.Credentials{Username: cfg.TTSUsername, Password: cfg.TTSPassword},
		cfg.Voice,
		tts.WithLogger(log.L()),
	)
	if err != nil {
		return err
	}

	// Capture chain: microphone -> gate -> streaming transcriber.
	srcCfg := audioio.DefaultConfig()
	srcCfg.SampleRate = cfg.SampleRate
	srcCfg.Device = cfg.MicDevice
	src, err := audioio.NewPortAudioSource(srcCfg, log.L())
	if err != nil {
		return err
	}
	gate := audioio.NewGate(src, log.L())
	defer gate.Close()

	transcriber, err := stt.NewWatson(
		watson.Credentials{Username: cfg.STTUsername, Password: cfg.STTPassword},
		gate.Chunks(), srcCfg.SampleRate, srcCfg.Channels,
		stt.WithModel(cfg.STTModel),
		stt.WithLogger(log.L()),
	)
	if err != nil {
		return err
	}
	defer transcriber.Close()

	speaker := playback.New(synth, gate,
		playback.WithOutputPath(cfg.AudioOutPath),
		playback.WithPlayerCommand(cfg.PlayerCommand),
		playback.WithLogger(log.L()),
	)

	coord := session.New(cfg.AttentionWord, tones, engine, speaker, log.L())

	camCfg := camera.DefaultConfig()
	camCfg.Device = cfg.CameraDevice
	camCfg.Width = cfg.CameraWidth
	camCfg.Height = cfg.CameraHeight
	camCfg.Quality = cfg.CameraQuality
	camCfg.ImageDir = cfg.ImageDir
	cam, err := camera.New(camCfg, log.L())
	if err != nil {
		return err
	}

	if err := gate.Start(ctx); err != nil {
		return err
	}
	if err := transcriber.Start(ctx); err != nil {
		return err
	}

	if err := speaker.Speak(ctx, greeting); err != nil {
		log.Warn("greeting playback failed", "error", err)
	}
	if err := cam.Start(ctx); err != nil {
		log.Warn("camera start failed", "error", err)
	}

	log.Info("tjbot is listening, you may speak now", "attention", cfg.AttentionWord)

	// Single event loop: transcripts drive dialog turns in strict arrival
	// order; the one-shot photo event kicks off identification in the
	// background and caches its result on the coordinator.
	transcripts := transcriber.Transcripts()
	captures := cam.Captures()
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil

		case text, ok := <-transcripts:
			if !ok {
				return errors.New("transcript stream ended")
			}
			coord.HandleTranscript(ctx, text)

		case path, ok := <-captures:
			captures = nil // one photo per process
			if !ok {
				continue
			}
			go func() {
				label, err := vision.Identify(ctx, classifier, path)
				if err != nil {
					log.Error("character identification failed", "error", err)
					return
				}
				coord.SetCharacter(label)
			}()
		}
	}
}
