package jira

// createdWorklog is the subset of the worklog creation response this client
// cares about. Jira serializes the id as a string.
type createdWorklog struct {
	ID string `json:"id"`
}

type worklogBody struct {
	Comment          string `json:"comment"`
	Started          string `json:"started"`
	TimeSpentSeconds int64  `json:"timeSpentSeconds"`
}

// CreatedIssue is the response to an issue creation.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// Issue is a search hit.
type Issue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// SearchResult is the response of the search endpoint.
type SearchResult struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}

type issueFields struct {
	Project     issueProject `json:"project"`
	Summary     string       `json:"summary"`
	Description string       `json:"description"`
	IssueType   issueType    `json:"issuetype"`
}

type issueProject struct {
	Key string `json:"key"`
}

type issueType struct {
	Name string `json:"name"`
}

type createIssueBody struct {
	Fields issueFields `json:"fields"`
}

type searchBody struct {
	JQL        string   `json:"jql"`
	Fields     []string `json:"fields"`
	MaxResults int      `json:"maxResults"`
}
