package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"artsy/internal/models"
)

// MemoryStore keeps everything in process memory. Transactions are fully
// serialized by one mutex and restored from a snapshot on failure.
type MemoryStore struct {
	d    *memData
	inTx bool
}

type memData struct {
	mu       sync.Mutex
	seq      int64
	now      func() time.Time
	articles map[string]memArticle
	comments []memComment
	files    map[string]memFile
	users    map[string]models.User
}

type memArticle struct {
	models.Article
	seq int64
}

type memComment struct {
	models.Comment
	seq int64
}

type memFile struct {
	models.UploadedFile
	seq int64
}

func NewMemoryStore(users ...models.User) *MemoryStore {
	d := &memData{
		now:      time.Now,
		articles: map[string]memArticle{},
		files:    map[string]memFile{},
		users:    map[string]models.User{},
	}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return &MemoryStore{d: d}
}

// PutUser adds or replaces a user record.
func (s *MemoryStore) PutUser(u models.User) {
	defer s.lock()()
	s.d.users[u.ID] = u
}

func (s *MemoryStore) Articles() ArticleRepo { return memArticles{s} }
func (s *MemoryStore) Comments() CommentRepo { return memComments{s} }
func (s *MemoryStore) Files() UploadedFileRepo { return memFiles{s} }
func (s *MemoryStore) Users() UserRepo { return memUsers{s} }

func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	snap := s.d.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.d.restore(snap)
			panic(p)
		}
		if err != nil {
			s.d.restore(snap)
		}
	}()

	return fn(&MemoryStore{d: s.d, inTx: true})
}

func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.d.mu.Lock()
	return s.d.mu.Unlock
}

type memSnapshot struct {
	seq      int64
	articles map[string]memArticle
	comments []memComment
	files    map[string]memFile
	users    map[string]models.User
}

func (d *memData) snapshot() memSnapshot {
	snap := memSnapshot{
		seq:      d.seq,
		articles: make(map[string]memArticle, len(d.articles)),
		comments: append([]memComment(nil), d.comments...),
		files:    make(map[string]memFile, len(d.files)),
		users:    make(map[string]models.User, len(d.users)),
	}
	for k, v := range d.articles {
		snap.articles[k] = v
	}
	for k, v := range d.files {
		snap.files[k] = v
	}
	for k, v := range d.users {
		snap.users[k] = v
	}
	return snap
}

func (d *memData) restore(snap memSnapshot) {
	d.seq = snap.seq
	d.articles = snap.articles
	d.comments = snap.comments
	d.files = snap.files
	d.users = snap.users
}

func (d *memData) next() int64 {
	d.seq++
	return d.seq
}

func (d *memData) userName(id string) string {
	return d.users[id].Name
}

type memArticles struct{ s *MemoryStore }

func (r memArticles) Create(_ context.Context, a *models.Article) error {
	defer r.s.lock()()
	d := r.s.d
	if _, ok := d.articles[a.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range d.articles {
		if existing.Slug == a.Slug {
			return ErrDuplicate
		}
	}
	now := d.now()
	a.ViewCount = 0
	a.CreatedAt, a.UpdatedAt = now, now
	d.articles[a.ID] = memArticle{Article: *a, seq: d.next()}
	return nil
}

func (r memArticles) get(slug string) (*models.Article, error) {
	d := r.s.d
	for _, a := range d.articles {
		if a.Slug == slug {
			out := a.Article
			out.AuthorName = d.userName(out.AuthorID)
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r memArticles) GetBySlug(_ context.Context, slug string) (*models.Article, error) {
	defer r.s.lock()()
	return r.get(slug)
}

func (r memArticles) GetBySlugForUpdate(_ context.Context, slug string) (*models.Article, error) {
	defer r.s.lock()()
	return r.get(slug)
}

func (r memArticles) SlugExists(_ context.Context, slug string) (bool, error) {
	defer r.s.lock()()
	_, err := r.get(slug)
	return err == nil, nil
}

func (r memArticles) Update(_ context.Context, a *models.Article) error {
	defer r.s.lock()()
	d := r.s.d
	cur, ok := d.articles[a.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range d.articles {
		if id != a.ID && other.Slug == a.Slug {
			return ErrDuplicate
		}
	}
	cur.Slug = a.Slug
	cur.Title = a.Title
	cur.Content = a.Content
	cur.Excerpt = a.Excerpt
	cur.HeaderImageURL = a.HeaderImageURL
	cur.Published = a.Published
	cur.UpdatedAt = d.now()
	d.articles[a.ID] = cur
	a.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r memArticles) IncrementViews(_ context.Context, id string) (int64, error) {
	defer r.s.lock()()
	cur, ok := r.s.d.articles[id]
	if !ok {
		return 0, ErrNotFound
	}
	cur.ViewCount++
	r.s.d.articles[id] = cur
	return cur.ViewCount, nil
}

func (r memArticles) toggle(slug string, flip func(a *memArticle) bool) (bool, error) {
	defer r.s.lock()()
	for id, a := range r.s.d.articles {
		if a.Slug == slug {
			v := flip(&a)
			r.s.d.articles[id] = a
			return v, nil
		}
	}
	return false, ErrNotFound
}

func (r memArticles) ToggleFeatured(_ context.Context, slug string) (bool, error) {
	return r.toggle(slug, func(a *memArticle) bool { a.IsFeatured = !a.IsFeatured; return a.IsFeatured })
}

func (r memArticles) ToggleHidden(_ context.Context, slug string) (bool, error) {
	return r.toggle(slug, func(a *memArticle) bool { a.Hidden = !a.Hidden; return a.Hidden })
}

func (r memArticles) List(_ context.Context, f models.ArticleFilter) ([]*models.Article, error) {
	defer r.s.lock()()
	d := r.s.d

	matched := make([]memArticle, 0, len(d.articles))
	for _, a := range d.articles {
		switch {
		case f.PublishedOnly && !a.Published,
			f.FeaturedOnly && !a.IsFeatured,
			!f.IncludeHidden && a.Hidden,
			f.AuthorID != "" && a.AuthorID != f.AuthorID:
			continue
		}
		matched = append(matched, a)
	}

	newest := func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	}
	sort.SliceStable(matched, func(i, j int) bool {
		switch f.Order {
		case models.OrderMostViewed:
			if matched[i].ViewCount != matched[j].ViewCount {
				return matched[i].ViewCount > matched[j].ViewCount
			}
		case models.OrderRecentlyUpdated:
			if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
				return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
			}
		}
		return newest(i, j)
	})

	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}
	out := make([]*models.Article, 0, len(matched))
	for _, a := range matched {
		cp := a.Article
		cp.AuthorName = d.userName(cp.AuthorID)
		out = append(out, &cp)
	}
	return out, nil
}

func (r memArticles) Leaderboard(_ context.Context) ([]models.LeaderboardEntry, error) {
	defer r.s.lock()()
	d := r.s.d

	byAuthor := make(map[string]*models.LeaderboardEntry, len(d.users))
	for id, u := range d.users {
		byAuthor[id] = &models.LeaderboardEntry{AuthorID: id, Username: u.Name}
	}
	for _, a := range d.articles {
		if !a.Published {
			continue
		}
		e, ok := byAuthor[a.AuthorID]
		if !ok {
			e = &models.LeaderboardEntry{AuthorID: a.AuthorID, Username: d.userName(a.AuthorID)}
			byAuthor[a.AuthorID] = e
		}
		e.ArticleCount++
		e.TotalViews += a.ViewCount
	}

	out := make([]models.LeaderboardEntry, 0, len(byAuthor))
	for _, e := range byAuthor {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalViews != out[j].TotalViews {
			return out[i].TotalViews > out[j].TotalViews
		}
		if out[i].ArticleCount != out[j].ArticleCount {
			return out[i].ArticleCount > out[j].ArticleCount
		}
		return out[i].AuthorID < out[j].AuthorID
	})
	return out, nil
}

type memComments struct{ s *MemoryStore }

func (r memComments) Create(_ context.Context, c *models.Comment) error {
	defer r.s.lock()()
	d := r.s.d
	if _, ok := d.articles[c.ArticleID]; !ok {
		return ErrNotFound
	}
	c.CreatedAt = d.now()
	d.comments = append(d.comments, memComment{Comment: *c, seq: d.next()})
	return nil
}

func (r memComments) ListByArticle(_ context.Context, articleID string) ([]*models.Comment, error) {
	defer r.s.lock()()
	d := r.s.d
	var matched []memComment
	for _, c := range d.comments {
		if c.ArticleID == articleID {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].seq < matched[j].seq
	})
	out := make([]*models.Comment, 0, len(matched))
	for _, c := range matched {
		cp := c.Comment
		cp.AuthorName = d.userName(cp.AuthorID)
		out = append(out, &cp)
	}
	return out, nil
}

type memFiles struct{ s *MemoryStore }

func (r memFiles) Create(_ context.Context, f *models.UploadedFile) error {
	defer r.s.lock()()
	d := r.s.d
	for _, existing := range d.files {
		if existing.FileName == f.FileName {
			return ErrDuplicate
		}
	}
	f.CreatedAt = d.now()
	d.files[f.ID] = memFile{UploadedFile: *f, seq: d.next()}
	return nil
}

func (r memFiles) GetByID(_ context.Context, id string) (*models.UploadedFile, error) {
	defer r.s.lock()()
	f, ok := r.s.d.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := f.UploadedFile
	return &cp, nil
}

func (r memFiles) ListByUser(_ context.Context, userID string) ([]*models.UploadedFile, error) {
	defer r.s.lock()()
	var matched []memFile
	for _, f := range r.s.d.files {
		if f.UserID == userID {
			matched = append(matched, f)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})
	out := make([]*models.UploadedFile, 0, len(matched))
	for _, f := range matched {
		cp := f.UploadedFile
		out = append(out, &cp)
	}
	return out, nil
}

func (r memFiles) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	if _, ok := r.s.d.files[id]; !ok {
		return ErrNotFound
	}
	delete(r.s.d.files, id)
	return nil
}

type memUsers struct{ s *MemoryStore }

func (r memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}
