package steam

import "encoding/json"

// appDetailsEnvelope is one entry of the appdetails response, which is keyed
// by the requested app id.
type appDetailsEnvelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type appData struct {
	Type          string         `json:"type"`
	Name          string         `json:"name"`
	SteamAppID    int64          `json:"steam_appid"`
	IsFree        bool           `json:"is_free"`
	PriceOverview *priceOverview `json:"price_overview"`
	ReleaseDate   *releaseDate   `json:"release_date"`
}

type priceOverview struct {
	Currency         string `json:"currency"`
	Initial          int64  `json:"initial"`
	Final            int64  `json:"final"`
	DiscountPercent  int    `json:"discount_percent"`
	InitialFormatted string `json:"initial_formatted"`
	FinalFormatted   string `json:"final_formatted"`
}

type releaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"`
}

// searchAppsEntry is one hit of the community SearchApps endpoint. The app id
// arrives as a string or a number depending on the endpoint revision.
type searchAppsEntry struct {
	AppID json.Number `json:"appid"`
	Name  string      `json:"name"`
}
