package insight

import (
	"sync"
	"testing"

	"github.com/Madhu3782/Crop-Recommendation/pkg/entity"
)

func TestInjectPrice(t *testing.T) {
	reg := &Registry{}
	in := NewInjector(reg)
	ents := entity.Entities{entity.LabelCrop: "onion"}

	if got := in.Inject("onion price", "price", ents); len(got) != 0 {
		t.Errorf("without price model got %v, want empty", got)
	}

	reg.Register(Models{Price: struct{}{}})
	got := in.Inject("When should I sell onion?", "general", ents)
	want := "Estimated market price for onion is currently stable/high (Model access limited without full weather inputs)."
	if got[KeyPriceForecast] != want {
		t.Errorf("Price Forecast = %q, want %q", got[KeyPriceForecast], want)
	}
	if got := in.Inject("market rates", "Market", nil); len(got) != 0 {
		t.Errorf("without crop got %v, want empty", got)
	}
}

func TestInjectPest(t *testing.T) {
	reg := &Registry{}
	in := NewInjector(reg)
	if got := in.Inject("spots on leaves", "pest", nil); len(got) != 0 {
		t.Errorf("before registration got %v, want empty", got)
	}
	if reg.Registered() {
		t.Fatal("Registered before Register")
	}

	reg.Register(Models{})
	if !reg.Registered() {
		t.Fatal("not Registered after Register")
	}
	for _, label := range []string{"pest", "plant_disease", "PEST_CONTROL"} {
		got := in.Inject("spots on leaves", label, nil)
		if got[KeyPestRisk] == "" {
			t.Errorf("intent %q: no Pest Risk insight", label)
		}
	}
	if got := in.Inject("spots on leaves", "general", nil); len(got) != 0 {
		t.Errorf("general intent got %v", got)
	}
}

func TestMergeCallerWins(t *testing.T) {
	base := map[string]string{KeyPestRisk: "generic", "a": "1"}
	extra := map[string]string{KeyPestRisk: "High risk of late blight", "b": "2"}
	got := Merge(base, extra)
	if got[KeyPestRisk] != "High risk of late blight" || got["a"] != "1" || got["b"] != "2" {
		t.Errorf("Merge = %v", got)
	}
	if base[KeyPestRisk] != "generic" {
		t.Error("Merge modified base")
	}
	if got := Merge(nil, nil); got == nil {
		t.Error("Merge(nil, nil) = nil")
	}
}

func TestRegistryConcurrentRegister(t *testing.T) {
	reg := &Registry{}
	in := NewInjector(reg)
	ents := entity.Entities{entity.LabelCrop: "wheat"}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			reg.Register(Models{Price: i, Crop: i, Pest: i})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			m := reg.Models()
			if m.Price != m.Crop || m.Crop != m.Pest {
				t.Errorf("partial handle set observed: %+v", m)
				return
			}
			_ = in.Inject("wheat price", "price", ents)
		}
	}()
	wg.Wait()
}
