package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/clipgen/pkg/cli"
	"github.com/haivivi/clipgen/pkg/clip"
	"github.com/haivivi/clipgen/pkg/encoding"
	"github.com/haivivi/clipgen/pkg/jobs"
)

var (
	genPrompt    string
	genNarration string
	genStyle     string
	genAspect    string
	genLang      string
	genSave      bool
	genVideoOut  string
	genAudioOut  string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a clip",
	Long: `Generate a video clip and, when narration text is given, a WAV narration.

The request comes from -f (YAML or JSON) and/or flags; flags win.

Example request file (clip.yaml):
  prompt: a paper boat drifting down a rainy street
  narration: Every journey starts with a single drop.
  style: watercolor animation
  aspect_ratio: "9:16"
  language: en

Examples:
  clipgen generate -f clip.yaml --save
  clipgen generate --prompt "city at night" --video-out city.mp4
  clipgen generate -f clip.yaml --json -o result.json
  clipgen generate -f clip.yaml --query .audio > narration.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := getContext()
		if err != nil {
			return err
		}
		req, err := cli.LoadClipRequest(inputFile, clip.Request{
			Prompt:      genPrompt,
			Narration:   genNarration,
			Style:       genStyle,
			AspectRatio: clip.AspectRatio(genAspect),
			Language:    clip.Language(genLang),
		})
		if err != nil {
			return err
		}
		if err := req.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx, c, appOptions{generator: true})
		if err != nil {
			return err
		}
		defer a.Close()

		printVerbose("Using context: %s", c.Name)
		printVerbose("Prompt: %s", clip.FullPrompt(req.Prompt, req.Style))
		if verbose {
			ctx = clip.WithObserver(ctx, clip.ObserverFunc(printEvent))
		}

		start := time.Now()
		job, err := a.runner.Run(ctx, req, jobs.RunOptions{Save: genSave})
		if err != nil {
			if job != nil {
				cli.PrintWarning("clip %s failed after %s", job.ID, cli.FormatDuration(time.Since(start)))
			}
			return err
		}

		if err := writeAsset(job.Result.Video, genVideoOut); err != nil {
			return err
		}
		if genAudioOut != "" && job.Result.HasAudio() {
			if err := writeAsset(job.Result.Audio, genAudioOut); err != nil {
				return err
			}
		}

		if outputJSON || query != "" || outputFile != "" {
			return outputResult(job)
		}
		printSummary(job, time.Since(start))
		return nil
	},
}

func printEvent(ev clip.Event) {
	switch ev.Type {
	case clip.EventSubmitted:
		printVerbose("submitted %s", ev.Operation)
	case clip.EventPolled:
		printVerbose("poll #%d", ev.Attempt)
	case clip.EventDownloaded:
		printVerbose("downloaded video (%s)", cli.FormatBytes(int64(ev.Bytes)))
	case clip.EventNarrated:
		printVerbose("narration ready (%s)", cli.FormatBytes(int64(ev.Bytes)))
	case clip.EventNarrationFailed:
		printVerbose("narration skipped: %s", ev.Error)
	case clip.EventFailed:
		printVerbose("failed: %s", ev.Error)
	default:
		printVerbose("%s", ev.Type)
	}
}

// writeAsset decodes a data URI into path. An empty path is a no-op.
func writeAsset(uri, path string) error {
	if path == "" || uri == "" {
		return nil
	}
	d, err := encoding.ParseDataURI(uri)
	if err != nil {
		return fmt.Errorf("decode asset: %w", err)
	}
	if err := cli.OutputBytes(d.Data, path); err != nil {
		return err
	}
	cli.PrintSuccess("wrote %s (%s)", path, cli.FormatBytes(int64(len(d.Data))))
	return nil
}

func printSummary(job *jobs.Job, took time.Duration) {
	audio := "none"
	if job.Result.HasAudio() {
		audio = "wav"
	}
	fields := []cli.Field{
		{Label: "id", Value: job.ID},
		{Label: "took", Value: cli.FormatDuration(took)},
		{Label: "audio", Value: audio},
	}
	if rec := job.Record; rec != nil && rec.Assets != nil {
		fields = append(fields,
			cli.Field{Label: "video file", Value: rec.Assets.Video},
			cli.Field{Label: "audio file", Value: rec.Assets.Audio},
		)
	}
	fmt.Println(cli.DefaultStyles.Summary("clip generated", fields...))
}

func init() {
	f := generateCmd.Flags()
	f.StringVarP(&genPrompt, "prompt", "p", "", "scene description")
	f.StringVarP(&genNarration, "narration", "n", "", "narration text (omit for a silent clip)")
	f.StringVar(&genStyle, "style", "", "visual style (default: "+clip.DefaultStyle+")")
	f.StringVar(&genAspect, "aspect", "", "aspect ratio: 16:9, 9:16, 1:1, 4:5 or 2:3")
	f.StringVar(&genLang, "lang", "", "narration language: en, hi or te")
	f.BoolVar(&genSave, "save", false, "save the assets to the configured store")
	f.StringVar(&genVideoOut, "video-out", "", "write the video to this file")
	f.StringVar(&genAudioOut, "audio-out", "", "write the narration WAV to this file")
}
