package client

import (
	"context"
	"sync"
)

// slice bundles one result set with its own loading flag and error slot.
// Keeping these per-slice means a failed search never clobbers, say, a
// previously loaded category listing.
type slice struct {
	posts   []Post
	loading bool
	err     error
}

// ContentStore caches forum content for one API client and patches the
// cached copies on mutation instead of refetching. Stores are per-instance,
// constructor-injected with their API client.
type ContentStore struct {
	api *Client

	mu             sync.RWMutex
	posts          slice // full/category/search results
	myPosts        slice
	recentPosts    slice
	currentPost    *Post
	currentLoading bool
	currentErr     error
}

// NewContentStore creates a ContentStore bound to the given API client.
func NewContentStore(api *Client) *ContentStore {
	return &ContentStore{api: api}
}

// Posts returns the main listing slice (full, category, or search results).
func (s *ContentStore) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts.posts
}

// PostsErr returns the main listing's error slot.
func (s *ContentStore) PostsErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts.err
}

// PostsLoading reports whether a main listing fetch is in flight.
func (s *ContentStore) PostsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts.loading
}

// MyPosts returns the caller's own posts slice.
func (s *ContentStore) MyPosts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.myPosts.posts
}

// MyPostsErr returns the own-posts error slot.
func (s *ContentStore) MyPostsErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.myPosts.err
}

// RecentPosts returns the recent-posts slice.
func (s *ContentStore) RecentPosts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recentPosts.posts
}

// RecentPostsErr returns the recent-posts error slot.
func (s *ContentStore) RecentPostsErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.recentPosts.err
}

// CurrentPost returns the focused post with its replies, or nil.
func (s *ContentStore) CurrentPost() *Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentPost
}

// CurrentPostLoading reports whether a focused-post fetch is in flight.
func (s *ContentStore) CurrentPostLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLoading
}

// CurrentPostErr returns the focused post's error slot.
func (s *ContentStore) CurrentPostErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentErr
}

// FetchPosts loads the newest posts into the main listing slice.
func (s *ContentStore) FetchPosts(ctx context.Context, limit int) ([]Post, error) {
	return s.fetchListing(func() ([]Post, error) { return s.api.ListPosts(ctx, limit) })
}

// FetchPostsByCategory loads one category into the main listing slice.
func (s *ContentStore) FetchPostsByCategory(ctx context.Context, category string) ([]Post, error) {
	return s.fetchListing(func() ([]Post, error) { return s.api.ListPostsByCategory(ctx, category) })
}

// SearchPosts loads search results into the main listing slice.
func (s *ContentStore) SearchPosts(ctx context.Context, query string) ([]Post, error) {
	return s.fetchListing(func() ([]Post, error) { return s.api.SearchPosts(ctx, query) })
}

// fetchListing runs one listing fetch with the network call outside the
// lock. Concurrent fetches race and the last response wins.
func (s *ContentStore) fetchListing(fetch func() ([]Post, error)) ([]Post, error) {
	s.mu.Lock()
	s.posts.loading = true
	s.posts.err = nil
	s.mu.Unlock()

	posts, err := fetch()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts.loading = false
	if err != nil {
		s.posts.err = err
		return nil, err
	}
	s.posts.posts = posts
	s.posts.err = nil
	return posts, nil
}

// FetchMyPosts loads the caller's own posts.
func (s *ContentStore) FetchMyPosts(ctx context.Context) ([]Post, error) {
	s.mu.Lock()
	s.myPosts.loading = true
	s.myPosts.err = nil
	s.mu.Unlock()

	posts, err := s.api.MyPosts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.myPosts.loading = false
	if err != nil {
		s.myPosts.err = err
		return nil, err
	}
	s.myPosts.posts = posts
	s.myPosts.err = nil
	return posts, nil
}

// FetchRecentPosts loads a short newest-first listing into recentPosts.
func (s *ContentStore) FetchRecentPosts(ctx context.Context, limit int) ([]Post, error) {
	s.mu.Lock()
	s.recentPosts.loading = true
	s.recentPosts.err = nil
	s.mu.Unlock()

	posts, err := s.api.ListPosts(ctx, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recentPosts.loading = false
	if err != nil {
		s.recentPosts.err = err
		return nil, err
	}
	s.recentPosts.posts = posts
	s.recentPosts.err = nil
	return posts, nil
}

// FetchPost loads one post (with replies) as the current post.
func (s *ContentStore) FetchPost(ctx context.Context, id uint) (*Post, error) {
	s.mu.Lock()
	s.currentLoading = true
	s.currentErr = nil
	s.mu.Unlock()

	post, err := s.api.GetPost(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentLoading = false
	if err != nil {
		s.currentErr = err
		return nil, err
	}
	s.currentPost = post
	s.currentErr = nil
	return post, nil
}

// CreatePost publishes a post and prepends it to every listing that shows
// newest-first content.
func (s *ContentStore) CreatePost(ctx context.Context, title, content, category string) (*Post, error) {
	post, err := s.api.CreatePost(ctx, title, content, category)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.posts.err = err
		return nil, err
	}
	s.posts.posts = prependPost(s.posts.posts, *post)
	s.myPosts.posts = prependPost(s.myPosts.posts, *post)
	s.recentPosts.posts = prependPost(s.recentPosts.posts, *post)
	s.posts.err = nil
	return post, nil
}

// UpdatePost edits a post and patches every slice that may hold it.
func (s *ContentStore) UpdatePost(ctx context.Context, id uint, update PostUpdate) (*Post, error) {
	post, err := s.api.UpdatePost(ctx, id, update)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.posts.err = err
		return nil, err
	}
	s.posts.posts = patchPost(s.posts.posts, post)
	s.myPosts.posts = patchPost(s.myPosts.posts, post)
	s.recentPosts.posts = patchPost(s.recentPosts.posts, post)
	if s.currentPost != nil && s.currentPost.ID == post.ID {
		// the listing payload omits replies; keep the loaded thread
		replies := s.currentPost.Replies
		updated := *post
		if len(updated.Replies) == 0 {
			updated.Replies = replies
		}
		s.currentPost = &updated
	}
	s.posts.err = nil
	return post, nil
}

// DeletePost removes a post from the server and from every local slice.
func (s *ContentStore) DeletePost(ctx context.Context, id uint) error {
	if err := s.api.DeletePost(ctx, id); err != nil {
		s.mu.Lock()
		s.posts.err = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts.posts = removePost(s.posts.posts, id)
	s.myPosts.posts = removePost(s.myPosts.posts, id)
	s.recentPosts.posts = removePost(s.recentPosts.posts, id)
	if s.currentPost != nil && s.currentPost.ID == id {
		s.currentPost = nil
	}
	s.posts.err = nil
	return nil
}

// CreateReply adds a reply and patches the current post's thread.
func (s *ContentStore) CreateReply(ctx context.Context, postID uint, content string) (*Reply, error) {
	reply, err := s.api.CreateReply(ctx, postID, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.currentErr = err
		return nil, err
	}
	if s.currentPost != nil && s.currentPost.ID == postID {
		updated := *s.currentPost
		updated.Replies = append(append([]Reply{}, s.currentPost.Replies...), *reply)
		s.currentPost = &updated
	}
	s.currentErr = nil
	return reply, nil
}

// UpdateReply edits a reply and patches the current post's thread.
func (s *ContentStore) UpdateReply(ctx context.Context, postID, replyID uint, content string) (*Reply, error) {
	reply, err := s.api.UpdateReply(ctx, postID, replyID, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.currentErr = err
		return nil, err
	}
	if s.currentPost != nil && s.currentPost.ID == postID {
		updated := *s.currentPost
		updated.Replies = make([]Reply, len(s.currentPost.Replies))
		copy(updated.Replies, s.currentPost.Replies)
		for i := range updated.Replies {
			if updated.Replies[i].ID == reply.ID {
				updated.Replies[i] = *reply
				break
			}
		}
		s.currentPost = &updated
	}
	s.currentErr = nil
	return reply, nil
}

// DeleteReply removes a reply and patches the current post's thread.
func (s *ContentStore) DeleteReply(ctx context.Context, postID, replyID uint) error {
	if err := s.api.DeleteReply(ctx, postID, replyID); err != nil {
		s.mu.Lock()
		s.currentErr = err
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentPost != nil && s.currentPost.ID == postID {
		updated := *s.currentPost
		updated.Replies = make([]Reply, 0, len(s.currentPost.Replies))
		for _, r := range s.currentPost.Replies {
			if r.ID != replyID {
				updated.Replies = append(updated.Replies, r)
			}
		}
		s.currentPost = &updated
	}
	s.currentErr = nil
	return nil
}

// The helpers below never write into an existing backing array: accessors
// hand out the live slices, so a snapshot a caller already holds must stay
// stable across later mutations.

func prependPost(posts []Post, post Post) []Post {
	return append([]Post{post}, posts...)
}

func patchPost(posts []Post, updated *Post) []Post {
	for i := range posts {
		if posts[i].ID == updated.ID {
			out := make([]Post, len(posts))
			copy(out, posts)
			out[i] = *updated
			return out
		}
	}
	return posts
}

func removePost(posts []Post, id uint) []Post {
	out := make([]Post, 0, len(posts))
	for _, p := range posts {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
