package service

import (
	"reflect"
	"strconv"
	"time"

	"github.com/solo-blog/console/caching"
	"github.com/solo-blog/console/database"
	"github.com/solo-blog/console/database/model"
	"github.com/solo-blog/console/util/common"
	"github.com/solo-blog/console/util/random"
	"github.com/solo-blog/console/util/reflect_util"
	"github.com/solo-blog/console/web/entity"

	"gorm.io/gorm"
)

const (
	preferenceCacheKey = "preference"
	preferenceCacheTTL = time.Minute
	secretKey          = "secret"
)

var defaultValueMap = map[string]string{
	"allowRegister": "false",
	"blogTitle":     "Solo",
	"servePath":     "http://localhost:8080",
	"defaultAvatar": "",
}

// PreferenceQueryService reads and writes the blog preference stored in the
// options table. Reads are cached for a minute and every write drops the cache.
type PreferenceQueryService struct {
	db    *gorm.DB
	cache *caching.Cache
}

func NewPreferenceQueryService(db *gorm.DB) *PreferenceQueryService {
	return &PreferenceQueryService{
		db:    db,
		cache: caching.NewCache(preferenceCacheTTL, 10*time.Minute),
	}
}

// GetPreference returns a copy of the current preference, falling back to the
// defaults for keys that were never saved.
func (s *PreferenceQueryService) GetPreference() (*entity.Preference, error) {
	if cached, ok := s.cache.Get(preferenceCacheKey); ok {
		p := *cached.(*entity.Preference)
		return &p, nil
	}

	keys := make([]string, 0, len(defaultValueMap))
	for key := range defaultValueMap {
		keys = append(keys, key)
	}
	options := make([]*model.Option, 0, len(keys))
	if err := s.db.Model(model.Option{}).Where("key IN ?", keys).Find(&options).Error; err != nil {
		return nil, err
	}

	pref := &entity.Preference{}
	keyMap := map[string]bool{}
	for _, option := range options {
		if err := setPreferenceField(pref, option.Key, option.Value); err != nil {
			return nil, err
		}
		keyMap[option.Key] = true
	}
	for key, value := range defaultValueMap {
		if keyMap[key] {
			continue
		}
		if err := setPreferenceField(pref, key, value); err != nil {
			return nil, err
		}
	}

	s.cache.Set(preferenceCacheKey, pref)
	p := *pref
	return &p, nil
}

func setPreferenceField(pref *entity.Preference, key, value string) error {
	field, found := reflect_util.FieldByJSONKey(reflect.TypeOf(pref).Elem(), key)
	if !found {
		return nil
	}
	fieldV := reflect.ValueOf(pref).Elem().FieldByName(field.Name)
	switch fieldV.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return common.NewErrorf("option %v has invalid bool value %q", key, value)
		}
		fieldV.SetBool(b)
	case reflect.String:
		fieldV.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return common.NewErrorf("option %v has invalid int value %q", key, value)
		}
		fieldV.SetInt(int64(n))
	default:
		return common.NewErrorf("unknown option %v type %v", key, fieldV.Kind())
	}
	return nil
}

// UpdatePreference validates and stores every preference field.
func (s *PreferenceQueryService) UpdatePreference(pref *entity.Preference) error {
	if err := pref.CheckValid(); err != nil {
		return err
	}
	v := reflect.ValueOf(pref).Elem()
	for _, field := range reflect_util.GetFields(v.Type()) {
		key := field.Tag.Get("json")
		if _, ok := defaultValueMap[key]; !ok {
			continue
		}
		if err := s.saveOption(key, formatValue(v.FieldByName(field.Name))); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int:
		return strconv.FormatInt(v.Int(), 10)
	default:
		return v.String()
	}
}

func (s *PreferenceQueryService) SetAllowRegister(allow bool) error {
	return s.saveOption("allowRegister", strconv.FormatBool(allow))
}

// GetSecret returns the session signing secret, generating and storing one
// on first use.
func (s *PreferenceQueryService) GetSecret() ([]byte, error) {
	option, err := s.getOption(secretKey)
	if database.IsNotFound(err) {
		secret := random.Seq(32)
		if err := s.saveOption(secretKey, secret); err != nil {
			return nil, err
		}
		return []byte(secret), nil
	} else if err != nil {
		return nil, err
	}
	return []byte(option.Value), nil
}

// ResetPreference deletes every stored option, secret included.
func (s *PreferenceQueryService) ResetPreference() error {
	defer s.cache.Delete(preferenceCacheKey)
	return s.db.Where("1 = 1").Delete(model.Option{}).Error
}

func (s *PreferenceQueryService) getOption(key string) (*model.Option, error) {
	option := &model.Option{}
	err := s.db.Model(model.Option{}).Where("key = ?", key).First(option).Error
	if err != nil {
		return nil, err
	}
	return option, nil
}

func (s *PreferenceQueryService) saveOption(key string, value string) error {
	defer s.cache.Delete(preferenceCacheKey)

	option, err := s.getOption(key)
	if database.IsNotFound(err) {
		return s.db.Create(&model.Option{
			Key:   key,
			Value: value,
		}).Error
	} else if err != nil {
		return err
	}
	option.Value = value
	return s.db.Save(option).Error
}
