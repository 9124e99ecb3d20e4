package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/shop-bot/internal/common"
	"serotonyl.ru/shop-bot/internal/features/catalog"
	"serotonyl.ru/shop-bot/internal/render"
)

type fakeAPI struct {
	messages []*telego.SendMessageParams
	photos   []*telego.SendPhotoParams
	nextID   int
	sendErr  error
	baseURL  string
}

func (f *fakeAPI) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.messages = append(f.messages, params)
	f.nextID++
	return &telego.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error) {
	f.photos = append(f.photos, params)
	f.nextID++
	return &telego.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) GetFile(ctx context.Context, params *telego.GetFileParams) (*telego.File, error) {
	return &telego.File{FileID: params.FileID, FilePath: "photos/" + params.FileID + ".jpg"}, nil
}

func (f *fakeAPI) FileDownloadURL(filepath string) string {
	return f.baseURL + "/" + filepath
}

func testContext() *render.Context {
	return &render.Context{
		Loc:      render.Russian,
		Currency: common.Currency{Symbol: "₽", Exp: 2},
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestSend_Text(t *testing.T) {
	api := &fakeAPI{}
	s := NewSender(api, 900, 0)

	id, err := s.Send(context.Background(), 42, "<b>привет</b>", nil, ParseModeHTML)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	require.Len(t, api.messages, 1)
	assert.Equal(t, int64(42), api.messages[0].ChatID.ID)
	assert.Equal(t, "<b>привет</b>", api.messages[0].Text)
	assert.Equal(t, telego.ModeHTML, api.messages[0].ParseMode)
	assert.Empty(t, api.photos)
}

func TestSend_PhotoWithCaption(t *testing.T) {
	api := &fakeAPI{}
	s := NewSender(api, 900, 0)

	_, err := s.Send(context.Background(), 42, "подпись", []byte{0xFF, 0xD8}, ParseModeHTML)
	require.NoError(t, err)
	require.Len(t, api.photos, 1)
	assert.Equal(t, "подпись", api.photos[0].Caption)
	assert.Empty(t, api.messages)
}

func TestSend_LongCaptionGoesSeparately(t *testing.T) {
	api := &fakeAPI{}
	s := NewSender(api, 10, 0)

	long := strings.Repeat("я", 11)
	id, err := s.Send(context.Background(), 42, long, []byte{0xFF}, ParseModeHTML)
	require.NoError(t, err)
	assert.Equal(t, 2, id)
	require.Len(t, api.photos, 1)
	assert.Empty(t, api.photos[0].Caption)
	require.Len(t, api.messages, 1)
	assert.Equal(t, long, api.messages[0].Text)
}

func TestSend_Error(t *testing.T) {
	api := &fakeAPI{sendErr: errors.New("Forbidden: bot was blocked by the user")}
	_, err := NewSender(api, 900, 0).Send(context.Background(), 42, "x", nil, "")
	assert.ErrorContains(t, err, "blocked")
}

func TestSendProduct(t *testing.T) {
	rc := testContext()
	p := &catalog.Product{Name: "Кружка", Description: "Керамика", Price: floatPtr(10)}

	api := &fakeAPI{}
	s := NewSender(api, 900, 0)

	_, err := s.SendProduct(context.Background(), rc, 1, p, false)
	require.NoError(t, err)
	require.Len(t, api.messages, 1)
	assert.Equal(t, "Кружка", api.messages[0].Text)

	// Картинки нет - полная карточка текстом
	_, err = s.SendProduct(context.Background(), rc, 1, p, true)
	require.NoError(t, err)
	require.Len(t, api.messages, 2)
	assert.Contains(t, api.messages[1].Text, "<b>10.00 ₽</b>")

	p.Image = []byte{0xFF, 0xD8}
	_, err = s.SendProduct(context.Background(), rc, 1, p, true)
	require.NoError(t, err)
	require.Len(t, api.photos, 1)
	assert.Contains(t, api.photos[0].Caption, "<b>Кружка</b>")
}

func TestSendCatalogHeaders(t *testing.T) {
	api := &fakeAPI{}
	s := NewSender(api, 900, 0)
	ctx := context.Background()

	_, err := s.SendCategory(ctx, 1, &catalog.Category{Name: "Одежда"}, "3")
	require.NoError(t, err)
	_, err = s.SendSubCategory(ctx, 1, &catalog.SubCategory{Name: "Футболки"}, "")
	require.NoError(t, err)
	_, err = s.SendVariation(ctx, 1, &catalog.Variation{Name: "XL", PriceDiff: 150})
	require.NoError(t, err)

	require.Len(t, api.messages, 3)
	assert.Equal(t, "<b>Одежда(3)</b>", api.messages[0].Text)
	assert.Equal(t, "<b>Футболки</b>", api.messages[1].Text)
	assert.Equal(t, "<code>XL-150</code>", api.messages[2].Text)
}

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/photos/AgAD.jpg" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte{1, 2, 3})
	}))
	defer srv.Close()

	s := NewSender(&fakeAPI{baseURL: srv.URL}, 900, 0)

	data, err := s.DownloadFile(context.Background(), "AgAD")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = s.DownloadFile(context.Background(), "missing")
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestDownloadFile_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{1, 2, 3, 4, 5})
	}))
	defer srv.Close()

	s := NewSender(&fakeAPI{baseURL: srv.URL}, 900, 0)
	s.maxDownload = 4

	_, err := s.DownloadFile(context.Background(), "AgAD")
	assert.ErrorContains(t, err, "больше 4 байт")

	s.maxDownload = 5
	data, err := s.DownloadFile(context.Background(), "AgAD")
	require.NoError(t, err)
	assert.Len(t, data, 5)
}

func TestDownloadFile_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte{1})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSender(&fakeAPI{baseURL: srv.URL}, 900, 0).DownloadFile(ctx, "AgAD")
	assert.ErrorIs(t, err, context.Canceled)
}
