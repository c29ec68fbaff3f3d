package safekids

import (
	"context"
	"time"

	"liyu1981.xyz/safekids-geofence-service/pkg/db"
	"liyu1981.xyz/safekids-geofence-service/pkg/geo"
	"liyu1981.xyz/safekids-geofence-service/pkg/models"
)

//go:generate mockgen -source=safekids.go -destination=mocks/mock_safekids.go -package=mocks

type IGeofence interface {
	CreateGeofence(ctx context.Context, parentID string, input *GeofenceInput) (*models.Geofence, error)
	ListGeofences(ctx context.Context, userID string, childID string) ([]models.Geofence, error)
	GetGeofence(ctx context.Context, userID string, geofenceID string) (*models.Geofence, error)
	UpdateGeofence(ctx context.Context, parentID string, geofenceID string, patch *GeofencePatch) (*models.Geofence, error)
	DeleteGeofence(ctx context.Context, parentID string, geofenceID string) error
	BulkDeleteGeofences(ctx context.Context, parentID string, geofenceIDs []string) (int64, error)
	BulkUpdateGeofences(ctx context.Context, parentID string, geofenceIDs []string, patch *GeofenceBulkPatch) (int64, error)
}

type IDetection interface {
	EvaluateLocation(ctx context.Context, childID string, lat, lng float64) ([]EvaluationResult, error)
}

type IAlert interface {
	ProcessTransition(ctx context.Context, transition *Transition) *AlertOutcome
	ListAlerts(ctx context.Context, parentID string, filter AlertFilter, page Pagination) (*AlertPage, error)
	GetAlertStats(ctx context.Context, parentID string, dateRange DateRange) (*AlertStats, error)
}

type ISuggestion interface {
	GetSuggestions(ctx context.Context, parentID string, childID string) ([]Suggestion, error)
	DismissSuggestion(ctx context.Context, parentID string, childID string, location geo.Point) error
}

type ILocation interface {
	ReportLocation(ctx context.Context, childID string, input *LocationInput) (*models.Location, error)
	GetLocationStats(ctx context.Context, childID string, dateRange DateRange) (*LocationStats, error)
}

// Notifier delivers push notifications. Both calls are best-effort and
// report delivery instead of failing.
type Notifier interface {
	Send(ctx context.Context, pushToken, title, body string, data map[string]string) bool
	SendMulticast(ctx context.Context, pushTokens []string, title, body string, data map[string]string) int
}

// Emitter pushes a live event to every connected session of a user.
type Emitter interface {
	Emit(userID string, event string, payload any) bool
}

// Geocoder never fails; implementations return fallback text instead.
type Geocoder interface {
	ResolveAddress(ctx context.Context, lat, lng float64) string
	ResolvePlaceName(ctx context.Context, lat, lng float64) string
}

type Directory interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUsers(ctx context.Context, userIDs []string) (map[string]models.User, error)
	LinkedParents(ctx context.Context, childID string) ([]models.User, error)
	LinkedChildren(ctx context.Context, parentID string) ([]string, error)
	IsLinked(ctx context.Context, parentID string, childID string) (bool, error)
}

// Throttle suppresses repeated alerts for one key inside a window. Allow
// is the atomic check-and-mark used on the alert path.
type Throttle interface {
	ShouldThrottle(ctx context.Context, key string) bool
	MarkFired(ctx context.Context, key string)
	Allow(ctx context.Context, key string) bool
}

type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *models.GeofenceAlert, geofence *models.Geofence) error
}

type SafeKids struct {
	Db db.DB

	Geofence   IGeofence
	Detection  IDetection
	Alert      IAlert
	Suggestion ISuggestion
	Location   ILocation

	Directory Directory
	Notifier  Notifier
	Emitter   Emitter
	Geocoder  Geocoder
	Throttle  Throttle
	// Publisher is optional.
	Publisher AlertPublisher

	// Cluster groups location history into candidate places.
	Cluster Clusterer
	Now     func() time.Time
}

type ServiceOpts struct {
	Geofence   IGeofence
	Detection  IDetection
	Alert      IAlert
	Suggestion ISuggestion
	Location   ILocation
}

func (s *SafeKids) WithServices(opts ServiceOpts) *SafeKids {
	if opts.Geofence != nil {
		s.Geofence = opts.Geofence
	}
	if opts.Detection != nil {
		s.Detection = opts.Detection
	}
	if opts.Alert != nil {
		s.Alert = opts.Alert
	}
	if opts.Suggestion != nil {
		s.Suggestion = opts.Suggestion
	}
	if opts.Location != nil {
		s.Location = opts.Location
	}
	return s
}

// WithDefaultServices wires the built-in implementation of every service.
func (s *SafeKids) WithDefaultServices() *SafeKids {
	return s.WithServices(ServiceOpts{
		Geofence:   s.GetIGeofence(),
		Detection:  s.GetIDetection(),
		Alert:      s.GetIAlert(),
		Suggestion: s.GetISuggestion(),
		Location:   s.GetILocation(),
	})
}

type Collaborators struct {
	Directory Directory
	Notifier  Notifier
	Emitter   Emitter
	Geocoder  Geocoder
	Throttle  Throttle
	Publisher AlertPublisher
}

func (s *SafeKids) WithCollaborators(c Collaborators) *SafeKids {
	if c.Directory != nil {
		s.Directory = c.Directory
	}
	if c.Notifier != nil {
		s.Notifier = c.Notifier
	}
	if c.Emitter != nil {
		s.Emitter = c.Emitter
	}
	if c.Geocoder != nil {
		s.Geocoder = c.Geocoder
	}
	if c.Throttle != nil {
		s.Throttle = c.Throttle
	}
	if c.Publisher != nil {
		s.Publisher = c.Publisher
	}
	return s
}

func (s *SafeKids) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *SafeKids) clusterer() Clusterer {
	if s.Cluster != nil {
		return s.Cluster
	}
	return IncrementalCluster
}
