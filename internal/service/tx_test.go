package service

import "context"

type testTxRepos struct {
	logs        QueryLogRepository
	suggestions SuggestionRepository
}

func (t *testTxRepos) QueryLogs() QueryLogRepository {
	return t.logs
}

func (t *testTxRepos) Suggestions() SuggestionRepository {
	return t.suggestions
}

type testTxRunner struct {
	repos  TxRepositories
	called bool
	err    error
}

func (t *testTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	t.called = true
	if t.err != nil {
		return t.err
	}
	return fn(t.repos)
}
