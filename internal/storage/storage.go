package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Подкаталоги хранилища
const (
	DirJawaban = "uploads_jawaban" // файлы ответов участников
	DirGambar  = "uploads_gambar"  // изображения вопросов и оформления
)

// FileStorage сохраняет загруженные файлы и возвращает публичный путь
type FileStorage interface {
	Save(subdir, originalName string, r io.Reader) (string, error)
}

// LocalStorage пишет файлы на локальный диск. Публичный путь имеет вид
// /storage/<subdir>/<uuid><ext>; раздачу статики настраивает роутер.
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage создает хранилище и подготавливает каталоги
func NewLocalStorage(baseDir string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./storage"
	}
	for _, subdir := range []string{DirJawaban, DirGambar} {
		if err := os.MkdirAll(filepath.Join(baseDir, subdir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to prepare storage dir %s: %w", subdir, err)
		}
	}
	return &LocalStorage{baseDir: baseDir}, nil
}

// BaseDir возвращает корень хранилища на диске
func (s *LocalStorage) BaseDir() string {
	return s.baseDir
}

// Save сохраняет файл под случайным именем, расширение берется из исходного
func (s *LocalStorage) Save(subdir, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.baseDir, subdir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		// Недописанный файл не должен оставаться на диске
		os.Remove(dst.Name())
		return "", err
	}

	return "/storage/" + subdir + "/" + name, nil
}
