package rest

import (
	"time"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

// Wire DTOs. Field names follow the original client contract ("profilePic",
// "image", ...), so the domain stays free of JSON tags.

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email,omitempty"`
	Username   string    `json:"username"`
	Bio        string    `json:"bio"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"createdAt"`
}

type userSummaryResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	ProfilePic string `json:"profilePic"`
}

type commentResponse struct {
	ID        string               `json:"id"`
	Author    *userSummaryResponse `json:"author"`
	Text      string               `json:"text"`
	CreatedAt time.Time            `json:"createdAt"`
}

type postResponse struct {
	ID        string               `json:"id"`
	Author    *userSummaryResponse `json:"author"`
	Content   string               `json:"content"`
	Image     string               `json:"image,omitempty"`
	Likes     int                  `json:"likes"`
	Liked     bool                 `json:"liked"`
	Comments  []commentResponse    `json:"comments,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

type notificationResponse struct {
	ID          string               `json:"id"`
	Kind        string               `json:"kind"`
	Sender      *userSummaryResponse `json:"sender"`
	Post        string               `json:"post,omitempty"`
	PostExcerpt string               `json:"postExcerpt,omitempty"`
	Read        bool                 `json:"read"`
	CreatedAt   time.Time            `json:"createdAt"`
}

type authResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// --- MAPPERS ---

func toUserResponse(u *domain.User, includeEmail bool) userResponse {
	resp := userResponse{
		ID:         u.ID,
		Username:   u.Username,
		Bio:        u.Bio,
		ProfilePic: u.AvatarURL,
		CreatedAt:  u.CreatedAt,
	}
	if includeEmail {
		resp.Email = u.Email
	}
	return resp
}

func toSummaryResponse(s *domain.UserSummary) *userSummaryResponse {
	if s == nil {
		return nil
	}
	return &userSummaryResponse{ID: s.ID, Username: s.Username, ProfilePic: s.AvatarURL}
}

func toCommentResponse(c *domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Author:    toSummaryResponse(c.Author),
		Text:      c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func toCommentResponses(comments []*domain.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out
}

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Author:    toSummaryResponse(p.Author),
		Content:   p.Content,
		Image:     p.ImageURL,
		Likes:     p.LikeCount,
		Liked:     p.Liked,
		Comments:  toCommentResponses(p.Comments),
		CreatedAt: p.CreatedAt,
	}
}

func toPostResponses(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:          n.ID,
		Kind:        string(n.Kind),
		Sender:      toSummaryResponse(n.Sender),
		Post:        n.PostID,
		PostExcerpt: n.PostExcerpt,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt,
	}
}
