package segment

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"voxtract/internal/textutil"
)

// originalComponent is the directory name replaced by the output folder.
const originalComponent = "/original"

// InputPath resolves a plan Path against baseDir. Backslashes are treated as
// separators so plans exported on Windows resolve on POSIX systems.
func InputPath(baseDir, rel string) string {
	rel = strings.ReplaceAll(rel, `\`, "/")
	if path.IsAbs(rel) || baseDir == "" {
		return filepath.FromSlash(rel)
	}
	joined := strings.ReplaceAll(filepath.ToSlash(baseDir), `\`, "/") + "/" + rel
	return filepath.FromSlash(path.Clean(joined))
}

// OutputName builds the segment file name: the first three "_" tokens of the
// input file name, then "_", the first word of task and ".wav". The task word
// is sanitized so labels such as "pa/ta/ka" cannot escape the directory.
func OutputName(inputPath, task string) (string, error) {
	words := strings.Fields(task)
	if len(words) == 0 {
		return "", errors.New("empty task")
	}
	label := textutil.SanitizeFileName(words[0])
	if label == "" {
		return "", fmt.Errorf("task %q has no usable characters", words[0])
	}
	tokens := strings.Split(filepath.Base(inputPath), "_")
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return strings.Join(tokens, "_") + "_" + label + ".wav", nil
}

// OutputDir maps an input directory to its segment directory by replacing
// every "/original" with "/" + folder. Directories without that component map
// to themselves.
func OutputDir(inputDir, folder string) string {
	slashed := filepath.ToSlash(inputDir)
	return filepath.FromSlash(strings.ReplaceAll(slashed, originalComponent, "/"+folder))
}

// OutputPath combines OutputDir and OutputName for an input recording.
func OutputPath(inputPath, task, folder string) (string, error) {
	name, err := OutputName(inputPath, task)
	if err != nil {
		return "", err
	}
	return filepath.Join(OutputDir(filepath.Dir(inputPath), folder), name), nil
}
