package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ottocollect/ottocollect/internal/common"
	"github.com/ottocollect/ottocollect/internal/logging"
	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/repositories/repomanager"
)

const (
	defaultPostLimit = 20
	maxPostLimit     = 100
	maxTitleLength   = 200
	excerptLength    = 200
)

// CommunityService runs the forum and the blog. Both boards share the same
// operations; the board only changes which points a new post earns.
type CommunityService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	points        *PointsService
	notifications *NotificationService
	log           logging.Logger
}

func NewCommunityService(db *sql.DB, m repomanager.RepositoryManager, p *PointsService, n *NotificationService, log logging.Logger) *CommunityService {
	return &CommunityService{db: db, repomanager: m, points: p, notifications: n, log: log.With("module", "community")}
}

func postAction(b models.Board) string {
	if b == models.BoardBlog {
		return ActionCreateBlogPost
	}
	return ActionCreateForumPost
}

// excerpt cuts content to a preview on a rune boundary.
func excerpt(content string) string {
	r := []rune(strings.TrimSpace(content))
	if len(r) <= excerptLength {
		return string(r)
	}
	return strings.TrimSpace(string(r[:excerptLength])) + "…"
}

func validatePost(p *models.Post) error {
	if !p.Board.Valid() {
		return validationError("unknown board %q", p.Board)
	}
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" || blank(p.Content) {
		return validationError("title and content are required")
	}
	if len([]rune(p.Title)) > maxTitleLength {
		return validationError("title is longer than %d characters", maxTitleLength)
	}
	if p.ImageURLs == nil {
		p.ImageURLs = []string{}
	}
	if p.Board == models.BoardBlog && blank(p.Excerpt) {
		p.Excerpt = excerpt(p.Content)
	}
	return nil
}

func (s *CommunityService) ListPosts(ctx context.Context, board models.Board, limit, offset int) ([]models.Post, error) {
	if !board.Valid() {
		return nil, validationError("unknown board %q", board)
	}
	if limit <= 0 {
		limit = defaultPostLimit
	}
	if limit > maxPostLimit {
		limit = maxPostLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repomanager.Posts(s.db).List(ctx, board, limit, offset)
}

func (s *CommunityService) GetPost(ctx context.Context, board models.Board, id string) (*models.Post, error) {
	if !board.Valid() {
		return nil, validationError("unknown board %q", board)
	}
	return s.repomanager.Posts(s.db).GetByID(ctx, board, id)
}

// CreatePost publishes a post authored by the actor and credits points.
func (s *CommunityService) CreatePost(ctx context.Context, actor Actor, p *models.Post) (*models.Post, error) {
	p.AuthorID = actor.UserID
	if err := validatePost(p); err != nil {
		return nil, err
	}

	created, err := s.repomanager.Posts(s.db).Create(ctx, p)
	if err != nil {
		return nil, err
	}
	s.points.reward(ctx, actor.UserID, postAction(created.Board))
	return created, nil
}

// UpdatePost edits title, content and pictures. Only the author or an admin
// may do so.
func (s *CommunityService) UpdatePost(ctx context.Context, actor Actor, p *models.Post) (*models.Post, error) {
	repo := s.repomanager.Posts(s.db)

	existing, err := repo.GetByID(ctx, p.Board, p.ID)
	if err != nil {
		return nil, err
	}
	if !actor.canModify(existing.AuthorID) {
		return nil, common.ErrorForbidden
	}

	p.AuthorID = existing.AuthorID
	if err := validatePost(p); err != nil {
		return nil, err
	}
	return repo.Update(ctx, p)
}

func (s *CommunityService) DeletePost(ctx context.Context, actor Actor, board models.Board, id string) error {
	repo := s.repomanager.Posts(s.db)

	existing, err := repo.GetByID(ctx, board, id)
	if err != nil {
		return err
	}
	if !actor.canModify(existing.AuthorID) {
		return common.ErrorForbidden
	}
	if err := repo.Delete(ctx, board, id); err != nil {
		return err
	}
	s.log.Info(ctx, "post deleted", "post_id", id, "board", board, "by", actor.UserID)
	return nil
}

func (s *CommunityService) ListComments(ctx context.Context, board models.Board, postID string) ([]models.Comment, error) {
	if _, err := s.GetPost(ctx, board, postID); err != nil {
		return nil, err
	}
	return s.repomanager.Posts(s.db).ListComments(ctx, postID)
}

// AddComment comments on a post, credits points and tells the post's author
// unless they commented on their own post.
func (s *CommunityService) AddComment(ctx context.Context, actor Actor, board models.Board, postID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationError("comment is empty")
	}

	post, err := s.GetPost(ctx, board, postID)
	if err != nil {
		return nil, err
	}

	c, err := s.repomanager.Posts(s.db).AddComment(ctx, &models.Comment{
		PostID:   postID,
		AuthorID: actor.UserID,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}

	s.points.reward(ctx, actor.UserID, ActionAddComment)
	if post.AuthorID != actor.UserID {
		s.notifications.notify(ctx, post.AuthorID, models.NotificationComment,
			fmt.Sprintf("New comment on your %s post %q", board, post.Title), strPtr(post.ID), strPtr(actor.UserID))
	}
	return c, nil
}

func (s *CommunityService) DeleteComment(ctx context.Context, actor Actor, id string) error {
	repo := s.repomanager.Posts(s.db)

	c, err := repo.GetComment(ctx, id)
	if err != nil {
		return err
	}
	if !actor.canModify(c.AuthorID) {
		return common.ErrorForbidden
	}
	return repo.DeleteComment(ctx, id)
}
