package cmd

const (
	// TimeoutFlag Flag to bound every remote request made while loading resources. Overrides http.timeout of the configuration.
	TimeoutFlag = "timeout"
	// UserAgentFlag Flag to set the User-Agent header of remote requests. Overrides http.userAgent of the configuration.
	UserAgentFlag = "user-agent"
)
