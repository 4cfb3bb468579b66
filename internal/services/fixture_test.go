package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"testing"

	"artsy/internal/markdown"
	"artsy/internal/media"
	"artsy/internal/models"
	"artsy/internal/repository"
	"artsy/internal/sanitize"
	"artsy/internal/storage"

	"github.com/stretchr/testify/require"
)

var (
	anon  = models.Requester{}
	alice = models.Requester{UserID: "alice", Role: models.RoleUser}
	bob   = models.Requester{UserID: "bob", Role: models.RoleUser}
	mod   = models.Requester{UserID: "mod", Role: models.RoleModerator}
	admin = models.Requester{UserID: "admin", Role: models.RoleAdmin}
	troll = models.Requester{UserID: "troll", Role: models.RoleUser}
)

var site = SiteInfo{BaseURL: "https://artsy.example", Title: "Artsy Thoughts", Description: "ideas"}

// objectStore is an in-memory storage.ObjectStore with switchable failures.
type objectStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleteErr error
}

func newObjectStore() *objectStore { return &objectStore{objects: map[string][]byte{}} }

func (o *objectStore) Put(_ context.Context, key string, data []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.objects[key] = data
	return nil
}

func (o *objectStore) GetStream(_ context.Context, key string) (io.ReadCloser, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (o *objectStore) Delete(_ context.Context, key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.deleteErr != nil {
		return o.deleteErr
	}
	delete(o.objects, key)
	return nil
}

func (o *objectStore) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.objects)
}

// brokenTxStore fails every transaction, as a lost database would.
type brokenTxStore struct {
	*repository.MemoryStore
}

var errDatabaseDown = errors.New("database down")

func (brokenTxStore) WithTx(context.Context, func(repository.Store) error) error {
	return errDatabaseDown
}

type fixture struct {
	store    *repository.MemoryStore
	objects  *objectStore
	ingestor *media.Ingestor
	content  *ContentPipeline
	articles ArticleService
	comments CommentService
	files    FileService
	feeds    FeedService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore(
		models.User{ID: "alice", Name: "Alice", Role: models.RoleUser},
		models.User{ID: "bob", Name: "Bob", Role: models.RoleUser},
		models.User{ID: "mod", Name: "Mo", Role: models.RoleModerator},
		models.User{ID: "admin", Name: "Ada", Role: models.RoleAdmin},
		models.User{ID: "troll", Name: "Troll", Role: models.RoleUser, IsBanned: true},
	)
	objects := newObjectStore()
	ingestor := media.NewIngestor(objects, media.Config{URLPrefix: "/files", Workers: 4})
	content := NewContentPipeline(markdown.New(markdown.DefaultConfig()), sanitize.New())

	return &fixture{
		store:    store,
		objects:  objects,
		ingestor: ingestor,
		content:  content,
		articles: NewArticleService(ArticleDeps{
			Store:       store,
			Images:      ingestor,
			Content:     content,
			Site:        site,
			HeaderImage: media.Resize{Width: 960, Height: 540},
		}),
		comments: NewCommentService(store),
		files:    NewFileService(store, ingestor, objects),
		feeds:    NewFeedService(store, content, site),
	}
}

func (f *fixture) publish(t *testing.T, req models.Requester, title, content string) *models.Article {
	t.Helper()
	a, err := f.articles.Create(context.Background(), req, models.ArticleForm{Title: title, Content: content, Action: "publish"}, nil)
	require.NoError(t, err)
	return a
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 7 {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 90, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
