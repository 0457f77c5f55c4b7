package normalization

import "testing"

func TestParseInputString(t *testing.T) {
  if got := ParseInputString("  User@Example.COM  "); got != "user@example.com" {
    t.Fatalf("unexpected result %q", got)
  }
}

func TestTrimInputString(t *testing.T) {
  if got := TrimInputString("  My Project  "); got != "My Project" {
    t.Fatalf("unexpected result %q", got)
  }
}

func TestParseInputStringPtr(t *testing.T) {
  if got := ParseInputStringPtr(nil); got != nil {
    t.Fatalf("nil input must stay nil")
  }
  input := " MiXeD "
  if got := ParseInputStringPtr(&input); got == nil || *got != "mixed" {
    t.Fatalf("unexpected result %v", got)
  }
}
