package safekids

import (
	"fmt"

	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

const (
	MsgGeofenceNameInvalid    = "Tên vùng phải từ 1-50 ký tự"
	MsgGeofenceTypeInvalid    = "Loại vùng phải là safe hoặc danger"
	MsgGeofenceRadiusInvalid  = "Bán kính phải từ 50-1000 mét"
	MsgCoordinateInvalid      = "Tọa độ không hợp lệ"
	MsgChildrenRequired       = "Phải chọn ít nhất một trẻ em"
	MsgChildrenInvalid        = "Các trẻ em được chọn không hợp lệ"
	MsgActiveHoursInvalid     = "Giờ hoạt động phải có dạng HH:MM"
	MsgGeofenceIDsRequired    = "Danh sách ID vùng là bắt buộc"
	MsgUpdatesRequired        = "Dữ liệu cập nhật là bắt buộc"
	MsgBatteryInvalid         = "Mức pin phải từ 0-100"
	MsgAccuracyInvalid        = "Độ chính xác không hợp lệ"
	MsgDateRangeInvalid       = "Khoảng thời gian không hợp lệ"
	AlertNotificationTitle    = "Cảnh Báo Vùng"
	AlertRealtimeEvent        = "geofenceAlert"
	AlertNotificationDataType = "geofence"
	MostVisitedAddressLabel   = "Địa điểm"
)

// AlertMessage renders the parent-facing sentence for a transition, e.g.
// "Minh đã rời khỏi Trường học".
func AlertMessage(childName string, action models.GeofenceAction, geofenceName string) string {
	verb := "đã vào"
	if action == models.GeofenceActionExit {
		verb = "đã rời khỏi"
	}
	return fmt.Sprintf("%s %s %s", childName, verb, geofenceName)
}

func suggestionName(locationName string, n int) string {
	if locationName != "" {
		return locationName
	}
	return fmt.Sprintf("Địa điểm thường xuyên #%d", n)
}
