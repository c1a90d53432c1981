package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// TweetHandler exposes tweet creation and reads.
type TweetHandler struct {
	tweetService ports.TweetService
}

func NewTweetHandler(tweetService ports.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

type createTweetRequest struct {
	Type     int    `json:"type" validate:"oneof=0 1 2 3"`
	Audience int    `json:"audience" validate:"oneof=0 1"`
	Content  string `json:"content" validate:"max=280"`
	ParentID string `json:"parent_id,omitempty"`
}

// CreateTweet posts a new tweet for the authenticated, verified caller.
//
// @Summary      Create a tweet
// @Tags         tweets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTweetRequest  true  "Tweet content"
// @Success      201   {object}  domain.Tweet
// @Failure      403   {object}  map[string]string
// @Router       /tweets [post]
func (h *TweetHandler) CreateTweet(c echo.Context) error {
	claims, err := MustViewerClaims(c)
	if err != nil {
		return err
	}

	var req createTweetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	tweet, err := h.tweetService.Create(c.Request().Context(), claims.UserID, ports.CreateTweetInput{
		Type:     domain.TweetType(req.Type),
		Audience: domain.TweetAudience(req.Audience),
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tweet)
}

// GetTweet returns one tweet, gated by its audience setting. Guests can read
// Everyone tweets; RestrictedCircle tweets require login and circle
// membership (or authorship).
//
// @Summary      Get a tweet
// @Tags         tweets
// @Produce      json
// @Param        tweet_id  path      string  true  "Tweet id"
// @Success      200       {object}  domain.Tweet
// @Failure      401       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /tweets/{tweet_id} [get]
func (h *TweetHandler) GetTweet(c echo.Context) error {
	tweet, err := h.tweetService.Get(c.Request().Context(), c.Param("tweet_id"), ViewerClaims(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tweet)
}
