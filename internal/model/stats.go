package model

// Stats is the admin view of the directory. Derived, never stored.
type Stats struct {
	TotalVisits  int `json:"totalVisits"`
	TotalUsers   int `json:"totalUsers"`
	OnlineUsers  int `json:"onlineUsers"`
	OfflineUsers int `json:"offlineUsers"`
	EliteUsers   int `json:"eliteUsers"`
}
