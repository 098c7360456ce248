package depcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/UniversInsideG/claude-tools/internal/lang"
)

func writeSource(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

const gdSource = `extends Node

func take_damage(amount: int, source: String) -> bool:
	return true

static func heal(amount: int) -> void:
	pass
`

func TestVerify_MatchingSignature(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "health_component.gd", gdSource)

	verified, findings := Verify(root, []Expectation{
		{File: "health_component.gd", Function: "take_damage", Params: "amount: int, source: String", Returns: "bool"},
	}, lang.Godot)

	if len(findings) != 0 {
		t.Fatalf("findings = %+v, want none", findings)
	}
	if len(verified) != 1 {
		t.Fatalf("verified = %+v, want 1 entry", verified)
	}
	if verified[0].Returns != "bool" {
		t.Errorf("Returns = %q, want bool", verified[0].Returns)
	}
}

func TestVerify_FunctionNotFound(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "health_component.gd", gdSource)

	verified, findings := Verify(root, []Expectation{
		{File: "health_component.gd", Function: "revive"},
	}, lang.Godot)

	if len(verified) != 0 {
		t.Errorf("verified = %+v, want none", verified)
	}
	if len(findings) != 1 {
		t.Fatalf("findings = %+v, want 1", findings)
	}
	if findings[0].Problem != "function not found in file" {
		t.Errorf("Problem = %q, want function-not-found", findings[0].Problem)
	}
}

func TestVerify_MissingFile(t *testing.T) {
	root := t.TempDir()

	_, findings := Verify(root, []Expectation{
		{File: "ghost.gd", Function: "anything"},
	}, lang.Godot)

	if len(findings) != 1 {
		t.Fatalf("findings = %+v, want 1", findings)
	}
}

func TestVerify_ParameterMismatchCarriesBothSignatures(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "health_component.gd", gdSource)

	_, findings := Verify(root, []Expectation{
		{File: "health_component.gd", Function: "take_damage", Params: "amount: int"},
	}, lang.Godot)

	if len(findings) != 1 {
		t.Fatalf("findings = %+v, want 1", findings)
	}
	f := findings[0]
	if f.Problem != "parameter mismatch" {
		t.Errorf("Problem = %q, want parameter mismatch", f.Problem)
	}
	if f.Expected == "" || f.Actual == "" {
		t.Errorf("mismatch finding should carry expected (%q) and actual (%q)", f.Expected, f.Actual)
	}
}

func TestVerify_WhitespaceAndCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "health_component.gd", gdSource)

	_, findings := Verify(root, []Expectation{
		{File: "health_component.gd", Function: "take_damage", Params: "Amount: Int,  Source: string", Returns: "Bool"},
	}, lang.Godot)

	if len(findings) != 0 {
		t.Errorf("findings = %+v, want none for normalized-equal signatures", findings)
	}
}

func TestVerify_PythonDefinition(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "core/store.py", `
class Store:
    async def save(self, key: str, value: dict) -> bool:
        return True
`)

	verified, findings := Verify(root, []Expectation{
		{File: "core/store.py", Function: "save", Params: "self, key: str, value: dict", Returns: "bool"},
	}, lang.Python)

	if len(findings) != 0 {
		t.Fatalf("findings = %+v, want none", findings)
	}
	if len(verified) != 1 {
		t.Fatalf("verified = %+v, want 1", verified)
	}
}

func TestVerify_WebArrowFunction(t *testing.T) {
	root := t.TempDir()
	writeSource(t, root, "api.js", "const fetchUser = async (id) => {\n  return fetch(`/u/${id}`)\n}\n")

	verified, findings := Verify(root, []Expectation{
		{File: "api.js", Function: "fetchUser", Params: "id"},
	}, lang.Web)

	if len(findings) != 0 {
		t.Fatalf("findings = %+v, want none", findings)
	}
	if len(verified) != 1 {
		t.Fatalf("verified = %+v, want 1", verified)
	}
}
