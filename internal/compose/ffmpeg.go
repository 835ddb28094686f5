package compose

import (
	"fmt"
	"strings"

	"github.com/CBGROWTHOPS/content-mvp-sub000/internal/domain"
)

// textFadeSeconds is the fixed in/out fade applied to on-screen text.
const textFadeSeconds = 0.25

// endFrameSeconds is the length of the trailing headline + CTA frame.
const endFrameSeconds = 2.0

// formatDimensions maps an output format onto pixel dimensions.
func formatDimensions(format domain.OutputFormat) (int, int) {
	switch format {
	case domain.FormatImageKit:
		return 1080, 1080
	case domain.FormatMotionPost:
		return 1080, 1350
	default:
		return 1080, 1920
	}
}

// escapeDrawtext escapes the characters ffmpeg's drawtext filter treats
// specially.
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`, `%`, `\%`)
	return r.Replace(s)
}

// drawtextFilter builds a drawtext expression with the fixed alpha fade.
// start/end are in segment-local seconds.
func drawtextFilter(text string, start, end float64, fontSize int) string {
	fadeIn := start + textFadeSeconds
	fadeOut := end - textFadeSeconds
	alpha := fmt.Sprintf(
		"if(lt(t,%[1]f),0,if(lt(t,%[2]f),(t-%[1]f)/%[5]f,if(lt(t,%[3]f),1,if(lt(t,%[4]f),(%[4]f-t)/%[5]f,0))))",
		start, fadeIn, fadeOut, end, textFadeSeconds,
	)
	return fmt.Sprintf(
		"drawtext=text='%s':fontcolor=white:fontsize=%d:box=1:boxcolor=black@0.45:boxborderw=18:x=(w-text_w)/2:y=h-text_h-h/8:alpha='%s'",
		escapeDrawtext(text), fontSize, alpha,
	)
}

// clipSegmentArgs trims and conforms one shot's clip to its time window.
func clipSegmentArgs(clipPath string, shot domain.Shot, width, height, fps int, outPath string) []string {
	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, height),
		"setsar=1",
	}
	if shot.OnScreenText != nil && strings.TrimSpace(shot.OnScreenText.Text) != "" {
		filters = append(filters, drawtextFilter(shot.OnScreenText.Text, 0, shot.Duration(), height/24))
	}
	return []string{
		"-y",
		"-i", clipPath,
		"-t", fmt.Sprintf("%.3f", shot.Duration()),
		"-vf", strings.Join(filters, ","),
		"-r", fmt.Sprintf("%d", fps),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-pix_fmt", "yuv420p",
		"-an",
		outPath,
	}
}

// stillSegmentArgs turns a still image (placeholder slate or end frame) into
// a timed segment.
func stillSegmentArgs(imagePath string, duration float64, width, height, fps int, overlayText string, outPath string) []string {
	filters := []string{
		fmt.Sprintf("scale=%d:%d", width, height),
		"setsar=1",
	}
	if strings.TrimSpace(overlayText) != "" {
		filters = append(filters, drawtextFilter(overlayText, 0, duration, height/24))
	}
	return []string{
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-t", fmt.Sprintf("%.3f", duration),
		"-vf", strings.Join(filters, ","),
		"-r", fmt.Sprintf("%d", fps),
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "22",
		"-pix_fmt", "yuv420p",
		"-an",
		outPath,
	}
}

// concatArgs joins the ordered segment list, optionally mixing voiceover and
// music stems under the picture.
func concatArgs(listPath, voiceoverPath, musicPath, outPath string) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
	}
	audioInputs := 0
	if voiceoverPath != "" {
		args = append(args, "-i", voiceoverPath)
		audioInputs++
	}
	if musicPath != "" {
		args = append(args, "-i", musicPath)
		audioInputs++
	}
	switch audioInputs {
	case 2:
		args = append(args,
			"-filter_complex", "[1:a][2:a]amix=inputs=2:duration=first:weights=1 0.35[aout]",
			"-map", "0:v", "-map", "[aout]",
			"-c:a", "aac", "-shortest",
		)
	case 1:
		args = append(args, "-map", "0:v", "-map", "1:a", "-c:a", "aac", "-shortest")
	default:
		args = append(args, "-an")
	}
	return append(args, "-c:v", "copy", outPath)
}

// midpointFrameArgs extracts one still at the midpoint of a shot's window.
func midpointFrameArgs(artifactPath string, shot domain.Shot, outPath string) []string {
	mid := shot.TimeStart + shot.Duration()/2
	return []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", mid),
		"-i", artifactPath,
		"-frames:v", "1",
		outPath,
	}
}
