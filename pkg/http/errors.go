package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"liyu1981.xyz/safekids-geofence-service/pkg/safekids"
)

const (
	MsgCallerRequired      = "Thiếu thông tin người dùng"
	MsgRealtimeUnavailable = "Kết nối thời gian thực không khả dụng"
	MsgCenterRequired      = "Tọa độ tâm vùng là bắt buộc"
	MsgCoordinatesRequired = "Latitude và longitude là bắt buộc"
	MsgLocationForbidden   = "Bạn không có quyền xem thống kê vị trí của trẻ này"
	MsgInternal            = "Lỗi máy chủ"
)

// respondError maps core errors onto status codes. Validation and ownership
// errors keep their localized message; unexpected errors are logged and
// hidden.
func respondError(c *gin.Context, err error) {
	var ownership *safekids.OwnershipError
	var validation *safekids.ValidationError

	switch {
	case errors.As(err, &ownership):
		c.JSON(http.StatusForbidden, gin.H{"error": ownership.Error(), "unauthorized": ownership.Unauthorized})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Message})
	case errors.Is(err, safekids.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, safekids.ErrForbidden), errors.Is(err, safekids.ErrNotParent):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		logger().Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": MsgInternal})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
