package main

import "testing"

func TestEnvFileArg(t *testing.T) {
	var cases = []struct {
		intention string
		args      []string
		want      string
	}{
		{"absent", []string{"-r", "50"}, ""},
		{"separate value", []string{"-env", "prod.env"}, "prod.env"},
		{"double dash", []string{"-d", "debug.log", "--env", "local.env"}, "local.env"},
		{"inline value", []string{"-env=staging.env"}, "staging.env"},
		{"dangling", []string{"-env"}, ""},
		{"positional", []string{"env"}, ""},
	}

	for _, testCase := range cases {
		t.Run(testCase.intention, func(t *testing.T) {
			if got := envFileArg(testCase.args); got != testCase.want {
				t.Errorf("envFileArg(%v) = %q, want %q", testCase.args, got, testCase.want)
			}
		})
	}
}

func TestRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "3")
	if got := redisDB(); got != 3 {
		t.Errorf("redisDB() = %d, want 3", got)
	}

	t.Setenv("REDIS_DB", "three")
	if got := redisDB(); got != 0 {
		t.Errorf("redisDB() = %d, want 0", got)
	}
}
