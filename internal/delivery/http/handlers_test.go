package delivery_http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yatube/internal/config"
	"yatube/internal/logger"
	"yatube/internal/model"
	group_memory "yatube/internal/repository/group/memory"
	memory_uow "yatube/internal/repository/memory"
	post_memory "yatube/internal/repository/post/memory"
	user_memory "yatube/internal/repository/user/memory"
	auth_service "yatube/internal/service/auth"
	feed_service "yatube/internal/service/feed"
	post_service "yatube/internal/service/post"
	metrics_mock "yatube/mocks/metrics"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type testApp struct {
	server *httptest.Server
	posts  post_service.Service
	auth   auth_service.Service

	postRepo  *post_memory.PostRepository
	groupRepo *group_memory.GroupRepository
	userRepo  *user_memory.UserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := logger.New("test")

	metrics := &metrics_mock.Provider{}
	metrics.On("IncrementHTTPRequests", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	metrics.On("RecordHTTPRequestDuration", mock.Anything, mock.Anything, mock.Anything).Return().Maybe()
	metrics.On("IncrementPostOperations", mock.Anything, mock.Anything).Return().Maybe()

	postRepo := post_memory.NewPostRepository(log)
	groupRepo := group_memory.NewGroupRepository(log)
	userRepo := user_memory.NewUserRepository(log)
	uow := memory_uow.NewMemoryUOW(postRepo, groupRepo)

	posts := post_service.NewPostService(postRepo, groupRepo, userRepo, uow, log, metrics)
	feed := feed_service.NewFeedService(postRepo, groupRepo, userRepo, 10, log)
	auth := auth_service.NewAuthService(userRepo, log)

	cfg := &config.Config{
		Env:  "test",
		Auth: config.Auth{SessionKey: "test-session-key", SessionMaxAge: 3600},
	}

	handler := NewHandler(posts, feed, auth, log)
	router := NewRouter(handler, cfg, log, metrics)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		server:    server,
		posts:     posts,
		auth:      auth,
		postRepo:  postRepo,
		groupRepo: groupRepo,
		userRepo:  userRepo,
	}
}

// newClient returns a cookie-aware client that does not follow redirects, so
// tests can assert on Location headers.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (app *testApp) register(t *testing.T, username, password string) *model.User {
	t.Helper()
	user, err := app.auth.Register(context.Background(), username, password)
	require.NoError(t, err)
	return user
}

func (app *testApp) addGroup(t *testing.T, title, slug string) *model.Group {
	t.Helper()
	group, err := app.groupRepo.Create(context.Background(), &model.Group{Title: title, Slug: slug, Description: title + " posts"})
	require.NoError(t, err)
	return group
}

func (app *testApp) addPost(t *testing.T, authorID int64, groupID *int64, text string) *model.Post {
	t.Helper()
	post, err := app.postRepo.Create(context.Background(), &model.Post{AuthorID: authorID, GroupID: groupID, Text: text})
	require.NoError(t, err)
	return post
}

func (app *testApp) login(t *testing.T, client *http.Client, username, password string) {
	t.Helper()
	resp := postForm(t, client, app.server.URL+"/auth/login/", url.Values{
		"username": {username},
		"password": {password},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func postForm(t *testing.T, client *http.Client, url string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.Post(url, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	author := app.register(t, "alice", "s3cret")
	group := app.addGroup(t, "Cats", "cats")
	app.addPost(t, author.ID, &group.ID, "A post about cats")

	tests := []struct {
		name     string
		path     string
		marker   string
		wantPost bool
	}{
		{"index", "/", `<main id="index">`, true},
		{"group", "/group/cats/", `<main id="group-list">`, true},
		{"profile", "/profile/alice/", `<main id="profile">`, true},
		{"post detail", "/posts/1/", `<main id="post-detail">`, true},
		{"login", "/auth/login/", `<main id="login">`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, client, app.server.URL+tt.path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, body, tt.marker)
			if tt.wantPost {
				assert.Contains(t, body, "A post about cats")
			}
		})
	}
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	paths := []string{
		"/unknown-page/",
		"/group/missing/",
		"/profile/nobody/",
		"/posts/42/",
	}
	for _, path := range paths {
		resp, _ := get(t, client, app.server.URL+path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestIndexPagination(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	author := app.register(t, "alice", "s3cret")
	for i := 0; i < 13; i++ {
		app.addPost(t, author.ID, nil, fmt.Sprintf("Post number %d", i))
	}

	_, first := get(t, client, app.server.URL+"/")
	assert.Equal(t, 10, strings.Count(first, `<article class="post">`))
	assert.Contains(t, first, "Page 1 of 2")

	_, second := get(t, client, app.server.URL+"/?page=2")
	assert.Equal(t, 3, strings.Count(second, `<article class="post">`))

	_, third := get(t, client, app.server.URL+"/?page=3")
	assert.Equal(t, 0, strings.Count(third, `<article class="post">`))
}

func TestCreatePost(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	author := app.register(t, "alice", "s3cret")
	group := app.addGroup(t, "Cats", "cats")
	app.addGroup(t, "Dogs", "dogs")
	app.login(t, client, "alice", "s3cret")

	resp, body := get(t, client, app.server.URL+"/create/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<main id="create-post">`)

	before, err := app.posts.CountByAuthor(context.Background(), author.ID)
	require.NoError(t, err)

	postResp := postForm(t, client, app.server.URL+"/create/", url.Values{
		"text":  {"A brand new post"},
		"group": {fmt.Sprintf("%d", group.ID)},
	})
	defer postResp.Body.Close()
	assert.Equal(t, http.StatusFound, postResp.StatusCode)
	assert.Equal(t, "/profile/alice/", postResp.Header.Get("Location"))

	after, err := app.posts.CountByAuthor(context.Background(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	_, catsBody := get(t, client, app.server.URL+"/group/cats/")
	assert.Contains(t, catsBody, "A brand new post")

	// The post must not leak into the other group.
	_, dogsBody := get(t, client, app.server.URL+"/group/dogs/")
	assert.NotContains(t, dogsBody, "A brand new post")
}

func TestCreatePost_RequiresLogin(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	resp, _ := get(t, client, app.server.URL+"/create/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/", resp.Header.Get("Location"))

	postResp := postForm(t, client, app.server.URL+"/create/", url.Values{"text": {"sneaky"}})
	defer postResp.Body.Close()
	assert.Equal(t, http.StatusFound, postResp.StatusCode)
	assert.Equal(t, "/auth/login/", postResp.Header.Get("Location"))
}

func TestCreatePost_InvalidForm(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	app.register(t, "alice", "s3cret")
	app.login(t, client, "alice", "s3cret")

	// Missing text re-renders the form instead of redirecting.
	resp := postForm(t, client, app.server.URL+"/create/", url.Values{"text": {""}})
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "This field is required.")

	// A group id that does not exist is rejected as a bad choice.
	resp = postForm(t, client, app.server.URL+"/create/", url.Values{
		"text":  {"Some text"},
		"group": {"999"},
	})
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Select a valid choice.")
}

func TestEditPost(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	author := app.register(t, "alice", "s3cret")
	post := app.addPost(t, author.ID, nil, "Original text")
	app.login(t, client, "alice", "s3cret")

	editURL := fmt.Sprintf("%s/posts/%d/edit/", app.server.URL, post.ID)

	resp, body := get(t, client, editURL)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Original text")
	assert.Contains(t, body, "Edit post")

	postResp := postForm(t, client, editURL, url.Values{"text": {"Edited text"}})
	defer postResp.Body.Close()
	assert.Equal(t, http.StatusFound, postResp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), postResp.Header.Get("Location"))

	updated, err := app.postRepo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited text", updated.Text)
}

func TestEditPost_NonAuthorLeavesPostUnchanged(t *testing.T) {
	app := newTestApp(t)

	author := app.register(t, "alice", "s3cret")
	app.register(t, "bob", "s3cret")
	post := app.addPost(t, author.ID, nil, "Original text")

	client := newClient(t)
	app.login(t, client, "bob", "s3cret")

	editURL := fmt.Sprintf("%s/posts/%d/edit/", app.server.URL, post.ID)

	// The form is not shown to non-authors.
	resp, _ := get(t, client, editURL)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), resp.Header.Get("Location"))

	// A direct submission is bounced the same way and changes nothing.
	postResp := postForm(t, client, editURL, url.Values{"text": {"Hijacked text"}})
	defer postResp.Body.Close()
	assert.Equal(t, http.StatusFound, postResp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), postResp.Header.Get("Location"))

	unchanged, err := app.postRepo.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original text", unchanged.Text)
}

func TestEditPost_EmptySubmissionIsNoOp(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	author := app.register(t, "alice", "s3cret")
	post := app.addPost(t, author.ID, nil, "Original text")
	app.login(t, client, "alice", "s3cret")

	editURL := fmt.Sprintf("%s/posts/%d/edit/", app.server.URL, post.ID)
	resp, err := client.Post(editURL, "application/x-www-form-urlencoded", strings.NewReader(""))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/posts/%d/", post.ID), resp.Header.Get("Location"))

	unchanged, getErr := app.postRepo.GetByID(context.Background(), post.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "Original text", unchanged.Text)
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "alice", "s3cret")

	t.Run("wrong password re-renders the form", func(t *testing.T) {
		client := newClient(t)
		resp := postForm(t, client, app.server.URL+"/auth/login/", url.Values{
			"username": {"alice"},
			"password": {"wrong"},
		})
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "Please enter a correct username and password.")
	})

	t.Run("valid credentials log in", func(t *testing.T) {
		client := newClient(t)
		app.login(t, client, "alice", "s3cret")

		// Logged-in users reach the create page.
		resp, _ := get(t, client, app.server.URL+"/create/")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	client := newClient(t)

	app.register(t, "alice", "s3cret")
	app.login(t, client, "alice", "s3cret")

	resp, _ := get(t, client, app.server.URL+"/auth/logout/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// The session is gone.
	resp, _ = get(t, client, app.server.URL+"/create/")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login/", resp.Header.Get("Location"))
}
