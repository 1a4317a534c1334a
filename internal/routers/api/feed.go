package api

import (
	"errors"
	"strings"

	"wavefeed-backend/internal/core"
	"wavefeed-backend/internal/model"
	"wavefeed-backend/internal/service"
	"wavefeed-backend/pkg/app"
	"wavefeed-backend/pkg/convert"
	"wavefeed-backend/pkg/errcode"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func GetPosts(c *gin.Context) {
	response := app.NewResponse(c)

	offset, limit := app.GetPageOffset(c)
	posts, total, err := service.FeedPosts(c.Request.Context(), offset, limit)
	if err != nil {
		logrus.Errorf("service.FeedPosts err: %v", err)
		response.ToErrorResponse(asErrcodeError(err, errcode.GetFeedFailed))
		return
	}
	response.ToResponseList(posts, total)
}

// GetCombinedFeed runs one combine operation for the caller's view.
// Unrecognized facet values are dropped by the coordinator, not rejected.
func GetCombinedFeed(c *gin.Context) {
	response := app.NewResponse(c)

	filters := core.FilterSet{
		Following: convert.StrTo(c.Query("following")).MustBool(),
		TimeRange: core.TimeRange(c.Query("time_range")),
	}
	if raw := c.Query("types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			t, err := model.ParseActivityType(part)
			if err != nil {
				logrus.Debugf("api.GetCombinedFeed drop facet value: %v", err)
				continue
			}
			filters.ActivityTypes = append(filters.ActivityTypes, t)
		}
	}

	snap, err := service.CombinedFeed(c.Request.Context(), sessionKeyFrom(c), c.GetHeader("X-Address"), c.Query("query"), filters)
	if err != nil {
		if errors.Is(err, service.ErrSuperseded) {
			// a newer submission owns the view now; nothing to report
			response.ToResponse(nil)
			return
		}
		logrus.Errorf("service.CombinedFeed err: %v", err)
		response.ToErrorResponse(asErrcodeError(err, errcode.GetFeedFailed))
		return
	}
	response.ToResponse(snap)
}

// SubmitCombinedFeed schedules a debounced combine for the caller's view;
// the snapshot lands on the view's update channel, not in this response.
func SubmitCombinedFeed(c *gin.Context) {
	param := service.CombinedFeedReq{}
	response := app.NewResponse(c)
	valid, errs := app.BindAndValid(c, &param)
	if !valid {
		logrus.Errorf("app.BindAndValid errs: %v", errs)
		response.ToErrorResponse(errcode.InvalidParams.WithDetails(errs.Errors()...))
		return
	}

	service.CombinedFeedDebounced(sessionKeyFrom(c), c.GetHeader("X-Address"), param)
	response.ToResponse(nil)
}

func LoadMoreCombinedFeed(c *gin.Context) {
	response := app.NewResponse(c)

	snap, err := service.CombinedFeedMore(c.Request.Context(), sessionKeyFrom(c))
	if err != nil {
		if errors.Is(err, service.ErrSuperseded) {
			response.ToResponse(nil)
			return
		}
		logrus.Errorf("service.CombinedFeedMore err: %v", err)
		response.ToErrorResponse(asErrcodeError(err, errcode.LoadMoreFailed))
		return
	}
	response.ToResponse(snap)
}

func RetryCombinedFeed(c *gin.Context) {
	response := app.NewResponse(c)

	snap, err := service.CombinedFeedRetry(c.Request.Context(), sessionKeyFrom(c))
	if err != nil {
		if errors.Is(err, service.ErrSuperseded) {
			response.ToResponse(nil)
			return
		}
		logrus.Errorf("service.CombinedFeedRetry err: %v", err)
		response.ToErrorResponse(asErrcodeError(err, errcode.GetFeedFailed))
		return
	}
	response.ToResponse(snap)
}

func ClearCombinedFeed(c *gin.Context) {
	response := app.NewResponse(c)
	service.ClearCombinedFeed(sessionKeyFrom(c))
	response.ToResponse(nil)
}

func SyncSearchIndex(c *gin.Context) {
	response := app.NewResponse(c)

	count, err := service.SyncSearchIndex(c.Request.Context())
	if err != nil {
		logrus.Errorf("service.SyncSearchIndex err: %v", err)
		response.ToErrorResponse(asErrcodeError(err, errcode.SyncIndexFailed))
		return
	}
	response.ToResponse(gin.H{"queued": count})
}

func asErrcodeError(err error, fallback *errcode.Error) *errcode.Error {
	var e *errcode.Error
	if errors.As(err, &e) {
		return e
	}
	return fallback
}
