package password

import (
	"strings"
	"testing"
)

func TestHashAndVerify(t *testing.T) {
	hasher := NewHasher(1000)

	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "regular password",
			password: "Passw0rd1",
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
		},
		{
			name:     "long password",
			password: strings.Repeat("Aa1", 40),
		},
		{
			name:     "empty password",
			password: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := hasher.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if !strings.HasPrefix(record, "pbkdf2_sha256$1000$") {
				t.Errorf("unexpected record format: %s", record)
			}
			if !Verify(tt.password, record) {
				t.Error("Verify() = false for matching password")
			}
			if Verify(tt.password+"x", record) {
				t.Error("Verify() = true for wrong password")
			}
		})
	}
}

func TestHash_RandomSalt(t *testing.T) {
	hasher := NewHasher(1000)

	first, err := hasher.Hash("Passw0rd1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("Passw0rd1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}

func TestVerify_MalformedRecords(t *testing.T) {
	hasher := NewHasher(1000)
	valid, err := hasher.Hash("Passw0rd1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	tests := []struct {
		name   string
		record string
	}{
		{name: "empty record", record: ""},
		{name: "not enough parts", record: "pbkdf2_sha256$1000$onlysalt"},
		{name: "unknown algorithm", record: strings.Replace(valid, "pbkdf2_sha256", "bcrypt", 1)},
		{name: "non-numeric iterations", record: "pbkdf2_sha256$abc$c2FsdA$a2V5"},
		{name: "negative iterations", record: "pbkdf2_sha256$-5$c2FsdA$a2V5"},
		{name: "broken salt base64", record: "pbkdf2_sha256$1000$!!!$a2V5"},
		{name: "broken key base64", record: "pbkdf2_sha256$1000$c2FsdA$!!!"},
		{name: "truncated record", record: valid[:len(valid)/2]},
		{name: "garbage", record: "not-a-record-at-all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// должен вернуть false, не паниковать
			if Verify("Passw0rd1", tt.record) {
				t.Errorf("Verify() = true for malformed record %q", tt.record)
			}
		})
	}
}

func TestVerify_LegacyIterationCount(t *testing.T) {
	// запись, сделанная с другим числом итераций,
	// проверяется со значением из самой записи
	old := NewHasher(500)
	record, err := old.Hash("Passw0rd1")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !Verify("Passw0rd1", record) {
		t.Error("Verify() = false for record with its own iteration count")
	}
}
