package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// Request describes one clip to render.
type Request struct {
	Group       string // category code, used as the output directory
	OutputName  string // file stem, already slugified
	FormulaNorm string // normalized formula passed to the scene
	Quality     Quality
}

// Result reports where a finished clip landed.
type Result struct {
	OutputName string
	OutputPath string
}

// Renderer produces an animation clip for a formula. Implementations
// must be safe to call without any open store transaction; renders can
// run for minutes.
type Renderer interface {
	Render(ctx context.Context, req Request) (*Result, error)
}

// ManimRenderer shells out to the manim CLI. The scene file reads the
// formula from the environment, so one scene serves every algorithm.
type ManimRenderer struct {
	Bin       string // manim executable, e.g. "manim"
	SceneFile string // python scene file path
	SceneName string // scene class to render
	MediaRoot string // manim --media_dir target
	Logger    *zap.Logger
}

const outputTailLimit = 2048

// Render invokes manim and moves the produced clip into the canonical
// group directory. The context bounds the whole render; a cancelled
// context kills the process.
func (r *ManimRenderer) Render(ctx context.Context, req Request) (*Result, error) {
	finalPath := OutputPath(r.MediaRoot, req.Group, req.Quality, req.OutputName)

	cmd := exec.CommandContext(ctx, r.Bin,
		"-"+req.Quality.ManimFlag(),
		"--media_dir", r.MediaRoot,
		"-o", req.OutputName,
		r.SceneFile,
		r.SceneName,
	)
	cmd.Env = append(os.Environ(),
		"CUBE_FORMULA="+req.FormulaNorm,
		"CUBE_GROUP="+req.Group,
	)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	r.Logger.Info("starting render",
		zap.String("output_name", req.OutputName),
		zap.String("quality", req.Quality.String()),
		zap.String("group", req.Group),
	)

	if err := cmd.Run(); err != nil {
		return nil, &RenderFailedError{
			OutputName: req.OutputName,
			OutputTail: outputTail(output.Bytes()),
			Cause:      err,
		}
	}

	produced, err := r.findProducedFile(req)
	if err != nil {
		return nil, &RenderFailedError{
			OutputName: req.OutputName,
			OutputTail: outputTail(output.Bytes()),
			Cause:      err,
		}
	}

	if produced != finalPath {
		if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.Rename(produced, finalPath); err != nil {
			return nil, fmt.Errorf("failed to move rendered clip: %w", err)
		}
	}

	r.Logger.Info("render finished",
		zap.String("output_name", req.OutputName),
		zap.String("output_path", finalPath),
	)
	return &Result{OutputName: req.OutputName, OutputPath: finalPath}, nil
}

// findProducedFile locates the clip manim wrote. Manim names the scene
// directory after the scene file, so the clip first lands under
// videos/<scene-file-stem>/<resolution>/ before the move.
func (r *ManimRenderer) findProducedFile(req Request) (string, error) {
	fileName := req.OutputName + ".mp4"
	mediaDir := req.Quality.MediaDir()

	candidates := []string{
		OutputPath(r.MediaRoot, req.Group, req.Quality, req.OutputName),
		filepath.ToSlash(filepath.Join(r.MediaRoot, "videos", sceneStem(r.SceneFile), mediaDir, fileName)),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	matches, err := filepath.Glob(filepath.Join(r.MediaRoot, "videos", "*", mediaDir, fileName))
	if err == nil && len(matches) > 0 {
		return filepath.ToSlash(matches[0]), nil
	}
	return "", fmt.Errorf("renderer produced no output file %s", fileName)
}

func sceneStem(sceneFile string) string {
	base := filepath.Base(sceneFile)
	return base[:len(base)-len(filepath.Ext(base))]
}

func outputTail(output []byte) string {
	if len(output) > outputTailLimit {
		output = output[len(output)-outputTailLimit:]
	}
	return string(bytes.TrimSpace(output))
}
