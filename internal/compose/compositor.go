// Package compose deterministically renders one timed output artifact from a
// validated blueprint and pre-generated per-shot media. Assembly is driven
// by ffmpeg; segment rendering walks the shot timeline in order and appends
// a trailing end-frame with the brand headline and call to action.
package compose

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/infra"
)

// Config controls compositor behavior.
type Config struct {
	FFmpegBin string
	WorkDir   string
	// Preview replaces every shot visual with a deterministic slate so the
	// timeline can be inspected without spending generation cost.
	Preview bool
	// DebugFrames extracts a midpoint still per shot after every render and
	// flags suspiciously small frames, independent of what the caller asks
	// for per job.
	DebugFrames bool
}

// Compositor assembles final artifacts.
type Compositor struct {
	cfg    Config
	logger infra.Logger
}

// NewCompositor builds a compositor. WorkDir is created on demand.
func NewCompositor(cfg Config, logger infra.Logger) *Compositor {
	if cfg.FFmpegBin == "" {
		cfg.FFmpegBin = "ffmpeg"
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = os.TempDir()
	}
	return &Compositor{cfg: cfg, logger: logger}
}

// FrameReport describes one extracted debug frame.
type FrameReport struct {
	ShotID        string
	FramePath     string
	Bytes         int64
	PossiblyBlank bool
}

// blankFrameByteThreshold flags encoded stills below this size as possibly
// blank. A near-uniform frame compresses to almost nothing, which is the
// signature of a shot that rendered with no visible content.
const blankFrameByteThreshold = 4096

// Render walks the blueprint timeline and produces one artifact file. media
// maps shot ids to their pre-generated assets; shots without a clip (or all
// shots in preview mode) render a deterministic placeholder slate.
// checkFrames forces midpoint-frame extraction for this render so the caller
// can reject blank output. The returned path lives under the compositor's
// work directory.
func (c *Compositor) Render(ctx context.Context, jobID string, bp domain.Blueprint, media map[string]domain.ShotMedia, brandInfo domain.BrandInfo, checkFrames bool) (string, []FrameReport, error) {
	width, height := formatDimensions(bp.Format)
	fps := bp.FPS

	workDir := filepath.Join(c.cfg.WorkDir, "compose-"+jobID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("compose: work dir: %w", err)
	}

	var segments []string
	for i, shot := range bp.Shots {
		segPath := filepath.Join(workDir, fmt.Sprintf("seg-%02d.mp4", i))
		if err := c.renderShotSegment(ctx, shot, media[shot.ShotID], width, height, fps, workDir, segPath); err != nil {
			return "", nil, fmt.Errorf("compose: shot %s: %w", shot.ShotID, err)
		}
		segments = append(segments, segPath)
	}

	endPath := filepath.Join(workDir, "end-frame.mp4")
	if err := c.renderEndFrame(ctx, brandInfo, width, height, fps, workDir, endPath); err != nil {
		return "", nil, fmt.Errorf("compose: end frame: %w", err)
	}
	segments = append(segments, endPath)

	listPath := filepath.Join(workDir, "segments.txt")
	var list strings.Builder
	for _, seg := range segments {
		fmt.Fprintf(&list, "file '%s'\n", seg)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return "", nil, fmt.Errorf("compose: segment list: %w", err)
	}

	voiceover, music := stemPaths(bp, media)
	artifactPath := filepath.Join(workDir, "artifact.mp4")
	if err := c.runFFmpeg(ctx, concatArgs(listPath, voiceover, music, artifactPath)); err != nil {
		return "", nil, fmt.Errorf("compose: concat: %w", err)
	}

	var frames []FrameReport
	if c.cfg.DebugFrames || checkFrames {
		frames = c.extractDebugFrames(ctx, artifactPath, bp.Shots, workDir)
	}

	c.logger.Info().
		Str("job_id", jobID).
		Int("shots", len(bp.Shots)).
		Str("artifact", artifactPath).
		Msg("compose: rendered artifact")
	return artifactPath, frames, nil
}

func (c *Compositor) renderShotSegment(ctx context.Context, shot domain.Shot, m domain.ShotMedia, width, height, fps int, workDir, outPath string) error {
	clip := m.ClipPath
	if !c.cfg.Preview && clip != "" {
		return c.runFFmpeg(ctx, clipSegmentArgs(clip, shot, width, height, fps, outPath))
	}

	slate, err := renderSlate(width, height, slateSeed(shot.ShotID, shot.SceneDescription))
	if err != nil {
		return err
	}
	slatePath := filepath.Join(workDir, "slate-"+shot.ShotID+".png")
	if err := os.WriteFile(slatePath, slate, 0o644); err != nil {
		return fmt.Errorf("write slate: %w", err)
	}
	text := ""
	if shot.OnScreenText != nil {
		text = shot.OnScreenText.Text
	}
	return c.runFFmpeg(ctx, stillSegmentArgs(slatePath, shot.Duration(), width, height, fps, text, outPath))
}

func (c *Compositor) renderEndFrame(ctx context.Context, brandInfo domain.BrandInfo, width, height, fps int, workDir, outPath string) error {
	slate, err := renderSlate(width, height, slateSeed("end-frame", brandInfo.Key))
	if err != nil {
		return err
	}
	slatePath := filepath.Join(workDir, "end-frame.png")
	if err := os.WriteFile(slatePath, slate, 0o644); err != nil {
		return fmt.Errorf("write end frame: %w", err)
	}
	text := strings.TrimSpace(brandInfo.Name)
	if cta := strings.TrimSpace(brandInfo.PrimaryCTA); cta != "" {
		if text != "" {
			text += " - "
		}
		text += cta
	}
	return c.runFFmpeg(ctx, stillSegmentArgs(slatePath, endFrameSeconds, width, height, fps, text, outPath))
}

func (c *Compositor) extractDebugFrames(ctx context.Context, artifactPath string, shots []domain.Shot, workDir string) []FrameReport {
	reports := make([]FrameReport, 0, len(shots))
	for _, shot := range shots {
		framePath := filepath.Join(workDir, "frame-"+shot.ShotID+".png")
		report := FrameReport{ShotID: shot.ShotID, FramePath: framePath}
		if err := c.runFFmpeg(ctx, midpointFrameArgs(artifactPath, shot, framePath)); err != nil {
			c.logger.Warn().Err(err).Str("shot_id", shot.ShotID).Msg("compose: frame extraction failed")
			continue
		}
		if info, err := os.Stat(framePath); err == nil {
			report.Bytes = info.Size()
			report.PossiblyBlank = info.Size() < blankFrameByteThreshold
		}
		if report.PossiblyBlank {
			c.logger.Warn().
				Str("shot_id", shot.ShotID).
				Int64("bytes", report.Bytes).
				Msg("compose: midpoint frame possibly blank")
		}
		reports = append(reports, report)
	}
	return reports
}

// stemPaths returns the voiceover and music stems for the mix: the first
// shot entry carrying each stem wins, since stems are blueprint-wide.
func stemPaths(bp domain.Blueprint, media map[string]domain.ShotMedia) (string, string) {
	var voiceover, music string
	for _, shot := range bp.Shots {
		m := media[shot.ShotID]
		if voiceover == "" && m.VoiceoverPath != "" {
			voiceover = m.VoiceoverPath
		}
		if music == "" && m.MusicPath != "" {
			music = m.MusicPath
		}
	}
	return voiceover, music
}

func (c *Compositor) runFFmpeg(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, c.cfg.FFmpegBin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		tail := string(out)
		if len(tail) > 800 {
			tail = tail[len(tail)-800:]
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(tail))
	}
	return nil
}
