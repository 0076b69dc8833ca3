package models

// SiteConfig là cấu hình singleton của site (site_config.json), không có bảng trên database.
type SiteConfig struct {
	Motd         string `json:"motd" bson:"motd"`
	ServerIP     string `json:"serverIp" bson:"serverIp"`
	Maintenance  bool   `json:"maintenance" bson:"maintenance"`
	AlertMessage string `json:"alertMessage" bson:"alertMessage"`
}

// SystemSetting là một dòng key/value trong system_config
type SystemSetting struct {
	Key   string `json:"key" bson:"key"`
	Value string `json:"value" bson:"value"`
}
