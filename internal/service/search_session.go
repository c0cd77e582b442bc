package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/user/movieexplorer/internal/model"
)

// DefaultSearchMinChars 少于这个字符数不发起搜索
const DefaultSearchMinChars = 3

// ErrQueryTooShort 关键字太短
var ErrQueryTooShort = errors.New("service: search query too short")

// MovieSearcher 搜索接口
type MovieSearcher interface {
	SearchMovies(ctx context.Context, query string, page int) (model.MovieResponse, error)
}

// SearchStatus 搜索状态
type SearchStatus string

const (
	SearchIdle    SearchStatus = "idle"
	SearchLoading SearchStatus = "loading"
	SearchEmpty   SearchStatus = "empty"
	SearchLoaded  SearchStatus = "loaded"
	SearchError   SearchStatus = "error"
)

// SearchState Loaded 时 HasMore 和 IsFetchingMore 有意义，Error 时 Message 有意义
type SearchState struct {
	Status         SearchStatus `json:"status"`
	HasMore        bool         `json:"has_more"`
	IsFetchingMore bool         `json:"is_fetching_more"`
	Message        string       `json:"message,omitempty"`
}

// SearchSession 一次搜索及其翻页。同一时间最多一个翻页请求在进行，
// 新的 Search 会使进行中的旧请求结果作废。
type SearchSession struct {
	searcher MovieSearcher
	minChars int
	logger   zerolog.Logger

	mu         sync.Mutex
	generation uint64
	query      string
	page       int
	totalPages int
	total      int
	movies     []model.Movie
	seen       map[int]struct{}
	state      SearchState
}

func NewSearchSession(searcher MovieSearcher, minChars int, logger zerolog.Logger) *SearchSession {
	if minChars <= 0 {
		minChars = DefaultSearchMinChars
	}
	return &SearchSession{
		searcher: searcher,
		minChars: minChars,
		logger:   logger.With().Str("component", "search_session").Logger(),
		seen:     make(map[int]struct{}),
		state:    SearchState{Status: SearchIdle},
	}
}

// Search 从第一页开始新的搜索。关键字去掉首尾空白后不足 minChars 个字符时
// 返回 ErrQueryTooShort，不发请求也不改变状态。
func (s *SearchSession) Search(ctx context.Context, text string) error {
	query := strings.TrimSpace(text)
	if utf8.RuneCountInString(query) < s.minChars {
		return ErrQueryTooShort
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.query = query
	s.page, s.totalPages, s.total = 0, 0, 0
	s.movies = nil
	s.seen = make(map[int]struct{})
	s.state = SearchState{Status: SearchLoading}
	s.mu.Unlock()

	resp, err := s.searcher.SearchMovies(ctx, query, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil
	}
	if err != nil {
		s.state = SearchState{Status: SearchError, Message: errorMessage(err)}
		return err
	}

	s.page, s.totalPages, s.total = resp.Page, resp.TotalPages, resp.TotalResults
	s.appendLocked(resp.Results)
	if len(s.movies) == 0 {
		s.state = SearchState{Status: SearchEmpty}
		return nil
	}
	s.state = SearchState{Status: SearchLoaded, HasMore: resp.HasMore()}
	return nil
}

// LoadMore 加载下一页。只有处于 loaded 且还有更多、没有翻页请求在进行时才会发请求。
// 失败时停止翻页（HasMore=false），已加载的结果保留，不返回错误。
func (s *SearchSession) LoadMore(ctx context.Context) error {
	s.mu.Lock()
	if s.state.Status != SearchLoaded || !s.state.HasMore || s.state.IsFetchingMore {
		s.mu.Unlock()
		return nil
	}
	gen := s.generation
	query := s.query
	next := s.page + 1
	s.state.IsFetchingMore = true
	s.mu.Unlock()

	resp, err := s.searcher.SearchMovies(ctx, query, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Int("page", next).Msg("[Search] 加载更多失败，停止翻页")
		s.state = SearchState{Status: SearchLoaded}
		return nil
	}

	s.page, s.totalPages, s.total = resp.Page, resp.TotalPages, resp.TotalResults
	s.appendLocked(resp.Results)
	s.state = SearchState{Status: SearchLoaded, HasMore: resp.HasMore()}
	return nil
}

// 按 id 去重
func (s *SearchSession) appendLocked(movies []model.Movie) {
	for _, m := range movies {
		if _, ok := s.seen[m.ID]; ok {
			continue
		}
		s.seen[m.ID] = struct{}{}
		s.movies = append(s.movies, m)
	}
}

// State 当前状态
func (s *SearchSession) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Query 当前关键字
func (s *SearchSession) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Movies 已加载的结果副本
func (s *SearchSession) Movies() []model.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Movie(nil), s.movies...)
}

// Result 已加载的结果，Page 为最后加载的页码
func (s *SearchSession) Result() model.MovieResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.MovieResponse{
		Results:      append([]model.Movie(nil), s.movies...),
		Page:         s.page,
		TotalPages:   s.totalPages,
		TotalResults: s.total,
	}
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unable to search. Please try again."
}
