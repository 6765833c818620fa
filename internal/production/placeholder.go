package production

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strings"
)

// writePlaceholder renders a solid-color clip with the script title burned
// in, so downstream stages always receive an artifact. If ffmpeg is
// missing or fails, a text file describing the intended video stands in.
func writePlaceholder(ctx context.Context, title, scriptText, outputPath string) (string, error) {
	if _, err := exec.LookPath("ffmpeg"); err == nil {
		text := strings.ReplaceAll(title, "'", "")
		text = strings.ReplaceAll(text, ":", " ")
		cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
			"-f", "lavfi",
			"-i", "color=c=black:s=720x1280:d=5",
			"-vf", fmt.Sprintf("drawtext=text='%s':fontcolor=white:fontsize=36:x=(w-text_w)/2:y=(h-text_h)/2", text),
			"-c:v", "libx264",
			"-pix_fmt", "yuv420p",
			outputPath,
		)
		if err := cmd.Run(); err == nil {
			log.Printf("Wrote placeholder video %s", outputPath)
			return outputPath, nil
		}
		log.Printf("ffmpeg placeholder render failed, writing text artifact")
	}

	textPath := strings.TrimSuffix(outputPath, ".mp4") + ".txt"
	content := fmt.Sprintf("PLACEHOLDER ARTIFACT\n\nTitle: %s\n\nScript:\n%s\n", title, scriptText)
	if err := os.WriteFile(textPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write placeholder artifact: %w", err)
	}
	log.Printf("Wrote placeholder text artifact %s", textPath)
	return textPath, nil
}
