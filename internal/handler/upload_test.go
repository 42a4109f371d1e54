package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/service"
)

// fakeFileStorage пишет в никуда и возвращает предсказуемые пути
type fakeFileStorage struct {
	saved []string
}

func (f *fakeFileStorage) Save(subdir, originalName string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	path := "/storage/" + subdir + "/" + originalName
	f.saved = append(f.saved, path)
	return path, nil
}

type MockSettingsRepo struct {
	mock.Mock
}

func (m *MockSettingsRepo) AllSettings() (map[string]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockSettingsRepo) UpsertSetting(key, value string) error {
	args := m.Called(key, value)
	return args.Error(0)
}

func (m *MockSettingsRepo) GetSmtpByUser(userID uint) (*entity.SmtpSetting, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SmtpSetting), args.Error(1)
}

func (m *MockSettingsRepo) UpsertSmtp(setting *entity.SmtpSetting) error {
	args := m.Called(setting)
	return args.Error(0)
}

// multipartRequest собирает multipart-тело из текстовых полей и файлов
func multipartRequest(t *testing.T, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, filename := range files {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write([]byte("isi-file"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func newUploadContext(t *testing.T, req *http.Request) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestExamHandlerImageUploads(t *testing.T) {
	t.Run("MultipartDataFieldParsed", func(t *testing.T) {
		h := &ExamHandler{files: &fakeFileStorage{}}
		req := multipartRequest(t, map[string]string{
			"data": `{"keterangan":"UTS","soal":[{"tipe_soal":"essay","soal_text":"Jelaskan"}]}`,
		}, nil)
		c := newUploadContext(t, req)

		input, err := h.readExamInput(c)

		require.NoError(t, err)
		assert.Equal(t, "UTS", input.Keterangan)
		require.Len(t, input.Soal, 1)
	})

	t.Run("MultipartWithoutDataRejected", func(t *testing.T) {
		h := &ExamHandler{files: &fakeFileStorage{}}
		c := newUploadContext(t, multipartRequest(t, nil, nil))

		_, err := h.readExamInput(c)

		assert.Error(t, err)
	})

	t.Run("GambarByIndexSavedToQuestion", func(t *testing.T) {
		files := &fakeFileStorage{}
		h := &ExamHandler{files: files}
		req := multipartRequest(t, map[string]string{
			"data": `{"keterangan":"UTS","soal":[{"tipe_soal":"essay","soal_text":"a"},{"tipe_soal":"essay","soal_text":"b"}]}`,
		}, map[string]string{
			"gambar_1": "diagram.png",
		})
		c := newUploadContext(t, req)

		input, err := h.readExamInput(c)
		require.NoError(t, err)
		h.attachImages(c, input)

		assert.Nil(t, input.Soal[0].Gambar)
		require.NotNil(t, input.Soal[1].Gambar)
		assert.Equal(t, "/storage/uploads_gambar/diagram.png", *input.Soal[1].Gambar)
		assert.Len(t, files.saved, 1)
	})

	t.Run("ExistingPathKeptWithoutNewFile", func(t *testing.T) {
		h := &ExamHandler{files: &fakeFileStorage{}}
		req := multipartRequest(t, map[string]string{
			"data": `{"keterangan":"UTS","soal":[{"tipe_soal":"essay","soal_text":"a","gambar":"/storage/uploads_gambar/lama.png"}]}`,
		}, nil)
		c := newUploadContext(t, req)

		input, err := h.readExamInput(c)
		require.NoError(t, err)
		h.attachImages(c, input)

		require.NotNil(t, input.Soal[0].Gambar)
		assert.Equal(t, "/storage/uploads_gambar/lama.png", *input.Soal[0].Gambar)
	})
}

func TestSettingsHandlerImageUploads(t *testing.T) {
	t.Run("MultipartUploadsStoredUnderWireKeys", func(t *testing.T) {
		settingsRepo := new(MockSettingsRepo)
		files := &fakeFileStorage{}
		h := NewSettingsHandler(service.NewSettingsService(settingsRepo), files)

		settingsRepo.On("UpsertSetting", "headerLogo", "/storage/uploads_gambar/logo.png").Return(nil)
		settingsRepo.On("UpsertSetting", "headerText", "Ujian Sekolah").Return(nil)

		req := multipartRequest(t, map[string]string{
			"headerText": "Ujian Sekolah",
		}, map[string]string{
			"headerLogo": "logo.png",
		})
		c := newUploadContext(t, req)

		h.Save(c)

		assert.Equal(t, http.StatusOK, c.Writer.Status())
		settingsRepo.AssertExpectations(t)
	})

	t.Run("JsonTransportStillAccepted", func(t *testing.T) {
		settingsRepo := new(MockSettingsRepo)
		h := NewSettingsHandler(service.NewSettingsService(settingsRepo), &fakeFileStorage{})

		settingsRepo.On("UpsertSetting", "headerText", "Selamat Datang").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"headerText":"Selamat Datang"}`))
		req.Header.Set("Content-Type", "application/json")
		c := newUploadContext(t, req)

		h.Save(c)

		assert.Equal(t, http.StatusOK, c.Writer.Status())
		settingsRepo.AssertExpectations(t)
	})

	t.Run("UnknownKeyRejected", func(t *testing.T) {
		settingsRepo := new(MockSettingsRepo)
		h := NewSettingsHandler(service.NewSettingsService(settingsRepo), &fakeFileStorage{})

		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"warnaTema":"biru"}`))
		req.Header.Set("Content-Type", "application/json")
		c := newUploadContext(t, req)

		h.Save(c)

		assert.Equal(t, http.StatusBadRequest, c.Writer.Status())
		settingsRepo.AssertNotCalled(t, "UpsertSetting", mock.Anything, mock.Anything)
	})
}
