package helper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knights-analytics/hugot"
)

// ModelDir is where downloaded onnx models are stored.
var ModelDir = "./models"

// ModelPath returns the local path of a model, e.g.
// "KnightsAnalytics/distilbert-NER" -> "./models/KnightsAnalytics_distilbert-NER".
func ModelPath(modelName string) string {
	return filepath.Join(ModelDir, strings.ReplaceAll(modelName, "/", "_"))
}

// PrepareModel downloads the model if it doesn't exist and returns the model path.
// onnxFilePath selects the onnx file inside the repository, empty uses the hugot default.
func PrepareModel(modelName string, onnxFilePath string) (string, error) {
	modelPath := ModelPath(modelName)

	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return downloadModel(modelName, onnxFilePath)
	}

	return modelPath, nil
}

// RefreshModel removes a (possibly broken) local copy of the model and downloads it again.
func RefreshModel(modelName string, onnxFilePath string) (string, error) {
	if err := os.RemoveAll(ModelPath(modelName)); err != nil {
		return "", fmt.Errorf("failed to remove model directory: %w", err)
	}
	return downloadModel(modelName, onnxFilePath)
}

func downloadModel(modelName string, onnxFilePath string) (string, error) {
	if err := os.MkdirAll(ModelDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	downloadOptions := hugot.NewDownloadOptions()
	if onnxFilePath != "" {
		downloadOptions.OnnxFilePath = onnxFilePath
	}
	downloadedPath, err := hugot.DownloadModel(modelName, ModelDir, downloadOptions)
	if err != nil {
		return "", fmt.Errorf("failed to download model: %w", err)
	}

	return downloadedPath, nil
}
