package cli

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/nexus/internal/services/studio"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat module operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "send <prompt>",
		Short: "Send a prompt to the assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"prompt": strings.Join(args, " ")}
			var result ChatResult
			if err := client.Post(cmd.Context(), "/api/v1/modules/chat", body, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "history",
		Short: "Show the chat transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HistoryResult
			if err := client.Get(cmd.Context(), "/api/v1/modules/chat/history", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the chat transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), "/api/v1/modules/chat/history"); err != nil {
				return err
			}
			output(cmd).PrintMessage("History cleared")
			return nil
		},
	})

	return cmd
}

func newCanvasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "canvas",
		Short: "Canvas module operations",
	}

	var outPath string
	paint := &cobra.Command{
		Use:   "paint <prompt>",
		Short: "Generate an image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"prompt": strings.Join(args, " ")}
			var result Artwork
			if err := client.Post(cmd.Context(), "/api/v1/modules/canvas", body, &result); err != nil {
				return err
			}
			if outPath != "" {
				img, err := studio.ParseImage(result.Image)
				if err != nil {
					return fmt.Errorf("failed to decode image: %w", err)
				}
				if err := os.WriteFile(outPath, img.Data, 0o644); err != nil {
					return fmt.Errorf("failed to write image: %w", err)
				}
			}
			output(cmd).Print(result)
			return nil
		},
	}
	paint.Flags().StringVar(&outPath, "out", "", "Write the generated image to this file")
	cmd.AddCommand(paint)

	cmd.AddCommand(&cobra.Command{
		Use:   "gallery",
		Short: "List generated images, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GalleryResult
			if err := client.Get(cmd.Context(), "/api/v1/modules/canvas/history", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}

func newVoiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Voice module operations",
	}

	var text, voice, outPath string
	speak := &cobra.Command{
		Use:   "speak",
		Short: "Synthesize speech to a WAV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			body := map[string]string{"text": text, "voice": voice}
			var result SpeechResult
			if err := client.Post(cmd.Context(), "/api/v1/modules/voice", body, &result); err != nil {
				return err
			}
			if outPath != "" {
				audio, err := base64.StdEncoding.DecodeString(result.Audio)
				if err != nil {
					return fmt.Errorf("failed to decode audio: %w", err)
				}
				if err := os.WriteFile(outPath, audio, 0o644); err != nil {
					return fmt.Errorf("failed to write audio: %w", err)
				}
			}
			output(cmd).Print(result)
			return nil
		},
	}
	speak.Flags().StringVar(&text, "text", "", "Text to speak (required)")
	speak.Flags().StringVar(&voice, "voice", "", "Voice name (default: server default)")
	speak.Flags().StringVar(&outPath, "out", "", "Write the WAV file here")
	_ = speak.MarkFlagRequired("text")
	cmd.AddCommand(speak)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available voices",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result VoicesResult
			if err := client.Get(cmd.Context(), "/api/v1/modules/voice/voices", &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}

func newLensCmd() *cobra.Command {
	var file, image, prompt string

	cmd := &cobra.Command{
		Use:   "lens",
		Short: "Analyze an image",
		Long:  "Analyze an image file (--file) or a data URL / base64 payload (--image).",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := image
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				payload = base64.StdEncoding.EncodeToString(data)
			}
			if payload == "" {
				return fmt.Errorf("one of --file or --image is required")
			}

			body := map[string]string{"image": payload, "prompt": prompt}
			var result AnalysisResult
			if err := client.Post(cmd.Context(), "/api/v1/modules/lens", body, &result); err != nil {
				return err
			}
			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Image file to analyze")
	cmd.Flags().StringVar(&image, "image", "", "Data URL or base64 image")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Question about the image")
	cmd.MarkFlagsMutuallyExclusive("file", "image")

	return cmd
}
