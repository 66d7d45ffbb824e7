package mdm

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	constant "seniorcarehub.xyz/tablet-mdm-service/pkg/common"
)

const familySessionTTL = 24 * time.Hour

// FamilyPrincipal identifies an authenticated family portal session.
type FamilyPrincipal struct {
	FamilyID   string
	MemberName string
}

// TokenService issues device certificates and family session tokens.
// Device certificates are stateless HMACs over the device id; family
// sessions are random tokens held in a TTL cache.
type TokenService struct {
	secret   []byte
	sessions *gocache.Cache
}

func NewTokenService(secret []byte) *TokenService {
	return &TokenService{
		secret:   secret,
		sessions: gocache.New(familySessionTTL, 10*time.Minute),
	}
}

func SecretFromEnv() []byte {
	if s, found := os.LookupEnv(constant.EnvKeyMDMDeviceTokenSecret); found && s != "" {
		return []byte(s)
	}
	// per-process secret; enrolled certificates do not survive a restart
	// without MDM_DEVICE_TOKEN_SECRET set
	return []byte(uuid.NewString())
}

func (ts *TokenService) IssueDeviceCertificate(deviceID string) string {
	mac := hmac.New(sha256.New, ts.secret)
	mac.Write([]byte(deviceID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (ts *TokenService) VerifyDeviceCertificate(deviceID, certificate string) bool {
	if deviceID == "" || certificate == "" {
		return false
	}
	expected := ts.IssueDeviceCertificate(deviceID)
	return hmac.Equal([]byte(expected), []byte(certificate))
}

func (ts *TokenService) IssueFamilySession(familyID, memberName string) string {
	token := uuid.NewString()
	ts.sessions.Set(token, FamilyPrincipal{FamilyID: familyID, MemberName: memberName}, gocache.DefaultExpiration)
	return token
}

func (ts *TokenService) VerifyFamilySession(token string) (*FamilyPrincipal, bool) {
	v, found := ts.sessions.Get(token)
	if !found {
		return nil, false
	}
	principal := v.(FamilyPrincipal)
	return &principal, true
}
